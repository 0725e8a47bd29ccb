// Package normalize converts raw extracted fields into typed records.
//
// Identity and the download count are hard fields: if they cannot be
// converted the whole resolve fails with a VALIDATION error. Everything
// else is soft: a value that does not parse leaves the zero value in the
// record and appends a warning.
package normalize

import (
	stderrors "errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/extract"
	"github.com/matzehuels/trackermeta/pkg/modinfo"
)

// Record converts raw into a module record. requested is the ID the caller
// asked for; zero means unknown (e.g. a filename lookup). A document
// carrying a different ID than requested is rejected.
func Record(raw extract.RawFields, requested uint32) (modinfo.Record, error) {
	id, err := moduleID(raw.ID, requested)
	if err != nil {
		return modinfo.Record{}, err
	}
	if raw.Filename == "" {
		return modinfo.Record{}, errors.Invalid("filename", errors.ReasonEmpty, "")
	}
	downloads, err := Count("downloads", raw.Downloads)
	if err != nil {
		return modinfo.Record{}, err
	}

	rec := modinfo.Record{
		ID:            id,
		Filename:      raw.Filename,
		Title:         raw.Title,
		InfoText:      raw.Instruments,
		SizeText:      raw.Size,
		MD5:           strings.ToLower(raw.MD5),
		Format:        strings.ToUpper(raw.Format),
		Genre:         raw.Genre,
		DownloadCount: downloads,
		UploadedText:  raw.Uploaded,
		Nominated:     raw.Nominated,
		Spotlit:       raw.Spotlit,
	}
	rec.DownloadURL = rec.DownloadLink()

	if raw.Size != "" {
		if rec.Size, err = Size(raw.Size); err != nil {
			return modinfo.Record{}, err
		}
	}
	if raw.Favourites != "" {
		n, err := Count("favourites", raw.Favourites)
		rec.FavouriteCount = soft(&rec, n, err)
	}
	if raw.Channels != "" {
		n, err := Count("channels", raw.Channels)
		if err == nil && n > math.MaxUint32 {
			err = errors.Invalid("channels", errors.ReasonNotANumber, raw.Channels)
		}
		rec.Channels = uint32(soft(&rec, n, err))
	}
	if raw.Uploaded != "" {
		t, err := Date(raw.Uploaded)
		if err != nil {
			warn(&rec, err)
		}
		rec.Uploaded = t
	}
	return rec, nil
}

// Candidates converts search rows, keeping their order.
func Candidates(raw []extract.RawCandidate) ([]modinfo.Candidate, error) {
	out := make([]modinfo.Candidate, 0, len(raw))
	for _, r := range raw {
		id, err := ParseID(r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, modinfo.Candidate{ID: id, Filename: r.Filename})
	}
	return out, nil
}

func moduleID(raw string, requested uint32) (uint32, error) {
	if raw == "" {
		if requested == 0 {
			return 0, errors.Invalid("id", errors.ReasonEmpty, "")
		}
		return requested, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return 0, err
	}
	if requested != 0 && id != requested {
		return 0, errors.New(errors.ErrCodeValidation, "document is module %d, requested %d", id, requested)
	}
	return id, nil
}

// ParseID parses a positive module ID.
func ParseID(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return 0, errors.Invalid("id", errors.ReasonNotANumber, s)
	}
	return uint32(n), nil
}

// Count parses a non-negative integer. Comma thousands separators are
// accepted only in groups of three ("1,234,567"); anything else is
// rejected as not a number.
func Count(field, s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Invalid(field, errors.ReasonEmpty, s)
	}
	digits, ok := stripSeparators(s)
	if !ok {
		return 0, errors.Invalid(field, errors.ReasonNotANumber, s)
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, errors.Invalid(field, errors.ReasonNotANumber, s)
	}
	return n, nil
}

func stripSeparators(s string) (string, bool) {
	if !strings.Contains(s, ",") {
		return s, allDigits(s)
	}
	groups := strings.Split(s, ",")
	if len(groups[0]) < 1 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Size parses a file size. Plain digits are bytes; values with a unit
// ("126.41KB", "2.1 MiB") go through humanize, which reads KB/MB as
// powers of 1000 and KiB/MiB as powers of 1024.
func Size(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if digits, ok := stripSeparators(s); ok {
		if n, err := strconv.ParseUint(digits, 10, 64); err == nil {
			return n, nil
		}
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Invalid("size", errors.ReasonBadSize, s)
	}
	return n, nil
}

var ordinal = regexp.MustCompile(`\b(\d{1,2})(st|nd|rd|th)\b`)

var dateLayouts = []string{
	"Mon 2 Jan 2006",
	"Mon 2 January 2006",
	"2 Jan 2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// Date parses an upload date such as "Mon 12th Jul 2004" or "2004-07-12".
// Dates are interpreted in UTC.
func Date(s string) (time.Time, error) {
	v := strings.Join(strings.Fields(ordinal.ReplaceAllString(s, "$1")), " ")
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Invalid("uploaded", errors.ReasonBadTimestamp, s)
}

func soft(rec *modinfo.Record, n uint64, err error) uint64 {
	if err != nil {
		warn(rec, err)
		return 0
	}
	return n
}

func warn(rec *modinfo.Record, err error) {
	msg := errors.UserMessage(err)
	var e *errors.Error
	if stderrors.As(err, &e) && e.Value != "" {
		msg = fmt.Sprintf("%s (value %q)", msg, e.Value)
	}
	rec.Warnings = append(rec.Warnings, msg)
}
