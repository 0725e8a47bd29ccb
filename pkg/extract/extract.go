package extract

import (
	"fmt"
	"strings"

	"github.com/matzehuels/trackermeta/pkg/anchor"
)

// MaxCandidates is the number of rows on the first page of search results.
const MaxCandidates = 40

// Kind selects the document generation.
type Kind int

const (
	HTML Kind = iota
	XML
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case HTML:
		return "html"
	case XML:
		return "xml"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses "html" or "xml" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return HTML, nil
	case "xml":
		return XML, nil
	}
	return 0, fmt.Errorf("unknown document kind %q (want html or xml)", s)
}

// RawFields holds the field values of one module exactly as found in the
// document, entity-decoded but otherwise unconverted. Empty strings mean
// the document did not provide the field.
type RawFields struct {
	ID          string
	Filename    string
	Title       string
	Instruments string
	Size        string
	MD5         string
	Format      string
	Channels    string
	Genre       string
	Downloads   string
	Favourites  string
	Uploaded    string
	Nominated   bool
	Spotlit     bool
}

// RawCandidate is one search result row before conversion.
type RawCandidate struct {
	ID       string
	Filename string
}

// Extractor reads module metadata and search listings from one document
// kind. Implementations are stateless and safe for concurrent use.
type Extractor interface {
	// Kind reports the document generation handled.
	Kind() Kind

	// Module extracts the fields of a module detail document.
	Module(body []byte, anchors anchor.Set) (RawFields, error)

	// Search extracts up to MaxCandidates result rows in document order.
	// A listing without rows yields an empty slice and no error.
	Search(body []byte) ([]RawCandidate, error)
}

// For returns the extractor for kind.
func For(kind Kind) Extractor {
	if kind == XML {
		return XMLExtractor{}
	}
	return HTMLExtractor{}
}
