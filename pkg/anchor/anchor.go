package anchor

import (
	"fmt"

	"github.com/matzehuels/trackermeta/pkg/errors"
)

// Field names an anchored line.
type Field int

const (
	FilenameLine Field = iota
	InfoLine
	DownloadLine
)

// Fields lists every anchored field, in document order.
var Fields = []Field{FilenameLine, InfoLine, DownloadLine}

// NominatedDelta is the number of lines the nomination badge inserts
// between the filename line and the info line.
const NominatedDelta = 6

// Compiled default offsets.
const (
	defaultFilenameLine = 1
	defaultInfoLine     = 3
	defaultDownloadLine = 5
)

// String returns the human-readable field name used in error messages.
func (f Field) String() string {
	switch f {
	case FilenameLine:
		return "filename line"
	case InfoLine:
		return "info line"
	case DownloadLine:
		return "download line"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Label returns the text that prefixes the field's line in the document.
func (f Field) Label() string {
	switch f {
	case FilenameLine:
		return "Filename:"
	case InfoLine:
		return "Info:"
	case DownloadLine:
		return "Downloads:"
	}
	return ""
}

// shifted reports whether the nomination badge moves this field.
func (f Field) shifted() bool {
	return f == InfoLine || f == DownloadLine
}

// Set maps every anchored field to a zero-based line index in the content
// block. A Set is a plain value: it is never mutated after loading and may
// be shared by any number of concurrent resolves.
type Set struct {
	Filename int `json:"filename_line" toml:"filename_line"`
	Info     int `json:"info_line" toml:"info_line"`
	Download int `json:"download_line" toml:"download_line"`
}

// Defaults returns the compiled anchor offsets.
func Defaults() Set {
	return Set{
		Filename: defaultFilenameLine,
		Info:     defaultInfoLine,
		Download: defaultDownloadLine,
	}
}

// Lookup returns the line index for f. For nominated documents the info
// and download lines are shifted by [NominatedDelta].
func (s Set) Lookup(f Field, nominated bool) (int, error) {
	var line int
	switch f {
	case FilenameLine:
		line = s.Filename
	case InfoLine:
		line = s.Info
	case DownloadLine:
		line = s.Download
	default:
		return 0, errors.New(errors.ErrCodeConfig, "unknown anchor %s", f)
	}
	if nominated && f.shifted() {
		line += NominatedDelta
	}
	return line, nil
}

// Validate rejects negative offsets and two fields sharing one line.
func (s Set) Validate() error {
	seen := make(map[int]Field, len(Fields))
	for _, f := range Fields {
		line, _ := s.Lookup(f, false)
		if line < 0 {
			return errors.New(errors.ErrCodeConfig, "%s offset %d is negative", f, line)
		}
		if prev, dup := seen[line]; dup {
			return errors.New(errors.ErrCodeConfig, "%s and %s share line %d", prev, f, line)
		}
		seen[line] = f
	}
	return nil
}

// Equal reports whether two sets hold the same offsets.
func (s Set) Equal(o Set) bool { return s == o }

// String formats the set the way the override file stores it.
func (s Set) String() string {
	return fmt.Sprintf("%d,%d,%d", s.Filename, s.Info, s.Download)
}
