package cli

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/modinfo"
)

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseIDs converts command arguments to module IDs.
func parseIDs(args []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(args))
	for _, a := range args {
		id, ok := parseID(a)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not a module id", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(s string) (uint32, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint32(n), true
}

// bestMatch prefers a candidate whose filename equals query ignoring case,
// then the first result.
func bestMatch(query string, candidates []modinfo.Candidate) (modinfo.Candidate, bool) {
	if len(candidates) == 0 {
		return modinfo.Candidate{}, false
	}
	q := strings.TrimSpace(query)
	for _, c := range candidates {
		if strings.EqualFold(c.Filename, q) {
			return c, true
		}
	}
	return candidates[0], true
}

func candidateRows(candidates []modinfo.Candidate) [][]string {
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []string{"", strconv.FormatUint(uint64(c.ID), 10), c.Filename})
	}
	return rows
}
