package normalize

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/extract"
	"github.com/matzehuels/trackermeta/pkg/modinfo"
)

func TestCount(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"0", 0, false},
		{"987", 987, false},
		{"1,234", 1234, false},
		{"1,234,567", 1234567, false},
		{" 42 ", 42, false},

		{"", 0, true},
		{"1,23", 0, true},
		{"1.234", 0, true},
		{",123", 0, true},
		{"1234,567", 0, true},
		{"12a", 0, true},
		{"-1", 0, true},
		{"99999999999999999999999", 0, true},
	}
	for _, tt := range tests {
		got, err := Count("downloads", tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Count(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeValidation) {
			t.Errorf("Count(%q) code = %v, want VALIDATION", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCountReason(t *testing.T) {
	_, err := Count("downloads", "12a")
	var e *errors.Error
	if !asError(err, &e) || e.Reason != errors.ReasonNotANumber || e.Value != "12a" {
		t.Errorf("Count(12a) = %#v, want NotANumber with value", err)
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}

func TestSize(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"129443", 129443, false},
		{"129,443", 129443, false},
		{"126.41KB", 126410, false},
		{"2.1MB", 2100000, false},
		{"1 KiB", 1024, false},
		{"big", 0, true},
	}
	for _, tt := range tests {
		got, err := Size(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Size(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Size(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	want := time.Date(2004, time.July, 12, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"Mon 12th Jul 2004", "Mon 12 Jul 2004", "12 Jul 2004", "2004-07-12", "Mon  12th  July 2004"} {
		got, err := Date(in)
		if err != nil {
			t.Errorf("Date(%q) error: %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Date(%q) = %v, want %v", in, got, want)
		}
	}
	for _, in := range []string{"1st 2nd", "yesterday"} {
		if _, err := Date(in); !errors.Is(err, errors.ErrCodeValidation) {
			t.Errorf("Date(%q) error = %v, want VALIDATION", in, err)
		}
	}
	if got, _ := Date("Thu 1st Jan 1998"); got.Day() != 1 {
		t.Errorf("Date(1st) day = %d, want 1", got.Day())
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("51772"); err != nil || id != 51772 {
		t.Errorf("ParseID(51772) = %d, %v", id, err)
	}
	for _, in := range []string{"", "0", "abc", "4294967296"} {
		if _, err := ParseID(in); err == nil {
			t.Errorf("ParseID(%q) should fail", in)
		}
	}
}

func TestRecord(t *testing.T) {
	raw := extract.RawFields{
		ID:          "51772",
		Filename:    "noway.s3m",
		Title:       "No Way",
		Instruments: " bassdrum",
		Size:        "126.41KB",
		MD5:         "8A3C",
		Format:      "s3m",
		Channels:    "16",
		Genre:       "Techno",
		Downloads:   "1,234",
		Favourites:  "23",
		Uploaded:    "Mon 12th Jul 2004",
		Spotlit:     true,
	}
	got, err := Record(raw, 51772)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	want := modinfo.Record{
		ID:             51772,
		Filename:       "noway.s3m",
		Title:          "No Way",
		InfoText:       " bassdrum",
		Size:           126410,
		SizeText:       "126.41KB",
		MD5:            "8a3c",
		Format:         "S3M",
		Channels:       16,
		Genre:          "Techno",
		DownloadCount:  1234,
		FavouriteCount: 23,
		Uploaded:       time.Date(2004, time.July, 12, 0, 0, 0, 0, time.UTC),
		UploadedText:   "Mon 12th Jul 2004",
		Spotlit:        true,
		DownloadURL:    "https://api.modarchive.org/downloads.php?moduleid=51772#noway.s3m",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordHardFailures(t *testing.T) {
	base := extract.RawFields{ID: "1", Filename: "a.mod", Downloads: "3"}
	tests := []struct {
		name      string
		mutate    func(*extract.RawFields)
		requested uint32
		wantField string
	}{
		{"bad downloads", func(r *extract.RawFields) { r.Downloads = "1,23" }, 1, "downloads"},
		{"empty downloads", func(r *extract.RawFields) { r.Downloads = "" }, 1, "downloads"},
		{"empty filename", func(r *extract.RawFields) { r.Filename = "" }, 1, "filename"},
		{"bad id", func(r *extract.RawFields) { r.ID = "x" }, 1, "id"},
		{"no id at all", func(r *extract.RawFields) { r.ID = "" }, 0, "id"},
		{"bad size", func(r *extract.RawFields) { r.Size = "huge" }, 1, "size"},
		{"id mismatch", func(r *extract.RawFields) { r.ID = "2" }, 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base
			tt.mutate(&raw)
			_, err := Record(raw, tt.requested)
			if !errors.Is(err, errors.ErrCodeValidation) {
				t.Fatalf("error = %v, want VALIDATION", err)
			}
			if errors.FieldOf(err) != tt.wantField {
				t.Errorf("FieldOf() = %q, want %q", errors.FieldOf(err), tt.wantField)
			}
		})
	}
}

func TestRecordSoftFailures(t *testing.T) {
	raw := extract.RawFields{
		Filename:   "a.mod",
		Downloads:  "3",
		Favourites: "lots",
		Channels:   "4x",
		Uploaded:   "sometime",
	}
	got, err := Record(raw, 7)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if got.ID != 7 {
		t.Errorf("ID = %d, want requested 7", got.ID)
	}
	if got.FavouriteCount != 0 || got.Channels != 0 || got.UploadKnown() {
		t.Errorf("soft fields not zeroed: %+v", got)
	}
	if len(got.Warnings) != 3 {
		t.Errorf("Warnings = %q, want 3 entries", got.Warnings)
	}
	if got.UploadedText != "sometime" {
		t.Errorf("UploadedText = %q, want raw text kept", got.UploadedText)
	}
}

func TestCandidates(t *testing.T) {
	got, err := Candidates([]extract.RawCandidate{{ID: "51772", Filename: "noway.s3m"}, {ID: "8", Filename: "x.mod"}})
	if err != nil {
		t.Fatalf("Candidates() error: %v", err)
	}
	want := []modinfo.Candidate{{ID: 51772, Filename: "noway.s3m"}, {ID: 8, Filename: "x.mod"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
	}

	if got, err := Candidates(nil); err != nil || got == nil || len(got) != 0 {
		t.Errorf("Candidates(nil) = %#v, %v; want empty", got, err)
	}
	if _, err := Candidates([]extract.RawCandidate{{ID: "zz"}}); err == nil {
		t.Error("Candidates(bad id) should fail")
	}
}
