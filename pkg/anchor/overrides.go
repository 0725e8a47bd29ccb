package anchor

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/trackermeta/pkg/errors"
)

// OverrideFileName is the name of the override file inside the config
// directory.
const OverrideFileName = "line-overrides"

const appName = "trackermeta"

// DefaultOverridePath returns the platform location of the override file,
// e.g. ~/.config/trackermeta/line-overrides on Linux.
func DefaultOverridePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, OverrideFileName), nil
}

// ApplyOverrides reads override rows from r and returns base with the three
// anchored offsets replaced. On any malformed row it returns base unchanged
// together with a CONFIG error. A reader without rows yields base.
func ApplyOverrides(base Set, r io.Reader) (Set, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(Fields)
	cr.TrimLeadingSpace = true

	out := base
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if stderrors.As(err, &perr) && stderrors.Is(perr.Err, csv.ErrFieldCount) {
				return base, errors.Wrap(errors.ErrCodeConfig, err, "override row %d must have %d columns", perr.Line, len(Fields))
			}
			return base, errors.Wrap(errors.ErrCodeConfig, err, "read overrides")
		}
		line, _ := cr.FieldPos(0)

		var offsets [3]int
		for i, raw := range row {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				e := errors.Wrap(errors.ErrCodeConfig, err, "override row %d: %s is not an integer", line, Fields[i])
				e.Field = Fields[i].String()
				e.Value = raw
				return base, e
			}
			offsets[i] = n
		}
		candidate := Set{Filename: offsets[0], Info: offsets[1], Download: offsets[2]}
		if err := candidate.Validate(); err != nil {
			return base, errors.Wrap(errors.ErrCodeConfig, err, "override row %d", line)
		}
		out = candidate
	}
	return out, nil
}

// Load returns the compiled defaults merged with the override file at path.
// An empty path means [DefaultOverridePath]. A missing file is not an
// error. When the file is unreadable or malformed, Load returns [Defaults]
// and the CONFIG error; overriding is then disabled but resolving works.
func Load(path string) (Set, error) {
	defaults := Defaults()
	if path == "" {
		p, err := DefaultOverridePath()
		if err != nil {
			return defaults, nil
		}
		path = p
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return defaults, nil
	}
	if err != nil {
		return defaults, errors.Wrap(errors.ErrCodeConfig, err, "open %s", path)
	}
	defer f.Close()

	return ApplyOverrides(defaults, f)
}
