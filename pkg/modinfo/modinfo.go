// Package modinfo defines the records returned by the archive resolver.
package modinfo

import (
	"fmt"
	"time"
)

// DownloadBase is the archive endpoint serving module files.
const DownloadBase = "https://api.modarchive.org/downloads.php"

// DownloadLink composes the archive download URL for a module. The filename
// fragment is cosmetic; the archive only looks at moduleid.
func DownloadLink(id uint32, filename string) string {
	return fmt.Sprintf("%s?moduleid=%d#%s", DownloadBase, id, filename)
}

// Record holds the metadata of one archive module.
//
// A Record is built once per successful resolve and never modified by the
// library afterwards. Identity fields (ID, Filename) are always set. Soft
// fields keep their zero value when the archive did not provide them or
// they could not be parsed; Warnings then explains why.
type Record struct {
	ID             uint32    `json:"id"`                      // Archive module ID
	Filename       string    `json:"filename"`                // Module filename, e.g. "noway.s3m"
	Title          string    `json:"title"`                   // Song title (may be empty)
	InfoText       string    `json:"instrument_text"`         // Instrument/sample names (may be empty)
	Size           uint64    `json:"size"`                    // File size in bytes
	SizeText       string    `json:"size_text,omitempty"`     // Size as shown by the archive
	MD5            string    `json:"md5,omitempty"`           // MD5 hash of the module file
	Format         string    `json:"format,omitempty"`        // Tracker format, e.g. "XM", "IT"
	Channels       uint32    `json:"channels,omitempty"`      // Channel count
	Genre          string    `json:"genre,omitempty"`         // Genre text
	DownloadCount  uint64    `json:"download_count"`          // Downloads at fetch time
	FavouriteCount uint64    `json:"favourite_count"`         // Favourites at fetch time
	Uploaded       time.Time `json:"uploaded,omitzero"`       // Upload date (zero = unknown)
	UploadedText   string    `json:"uploaded_text,omitempty"` // Upload date as shown by the archive
	Nominated      bool      `json:"nominated"`               // Page carried the nomination badge
	Spotlit        bool      `json:"spotlit"`                 // Featured by the archive
	DownloadURL    string    `json:"download_url"`            // Composed download link
	FetchedAt      time.Time `json:"fetched_at,omitzero"`     // When the record was resolved
	Warnings       []string  `json:"warnings,omitempty"`      // Soft field failures
}

// DownloadLink returns the archive download URL for the module.
func (r *Record) DownloadLink() string {
	return DownloadLink(r.ID, r.Filename)
}

// UploadKnown reports whether the upload date was parsed.
func (r *Record) UploadKnown() bool { return !r.Uploaded.IsZero() }

// Candidate is one row of a filename search.
type Candidate struct {
	ID       uint32 `json:"id"`
	Filename string `json:"filename"`
}

// DownloadLink returns the archive download URL for the candidate.
func (c Candidate) DownloadLink() string {
	return DownloadLink(c.ID, c.Filename)
}
