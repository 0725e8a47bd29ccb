package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/trackermeta/pkg/anchor"
	"github.com/matzehuels/trackermeta/pkg/errors"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return b
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"html", HTML, false},
		{"XML", XML, false},
		{" xml ", XML, false},
		{"json", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFor(t *testing.T) {
	if For(HTML).Kind() != HTML {
		t.Error("For(HTML) returned wrong extractor")
	}
	if For(XML).Kind() != XML {
		t.Error("For(XML) returned wrong extractor")
	}
	if HTML.String() != "html" || XML.String() != "xml" {
		t.Errorf("String() = %q, %q", HTML.String(), XML.String())
	}
}

func TestHTMLModule(t *testing.T) {
	raw, err := HTMLExtractor{}.Module(fixture(t, "module.html"), anchor.Defaults())
	if err != nil {
		t.Fatalf("Module() error: %v", err)
	}

	want := RawFields{
		ID:         "51772",
		Filename:   "noway.s3m",
		Title:      "No Way",
		Size:       "126.41KB",
		MD5:        "8a3c9f0e5b1d2c4a6f7e8d9c0b1a2f3e",
		Format:     "S3M",
		Channels:   "16",
		Genre:      "Techno",
		Downloads:  "1,234",
		Favourites: "23",
		Uploaded:   "Mon 12th Jul 2004",
	}
	got := raw
	got.Instruments = ""
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Module() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(raw.Instruments, "snare  & hat") {
		t.Errorf("Instruments = %q, want raw decoded sample text", raw.Instruments)
	}
}

func TestHTMLModuleNominated(t *testing.T) {
	body := fixture(t, "nominated.html")

	raw, err := HTMLExtractor{}.Module(body, anchor.Defaults())
	if err != nil {
		t.Fatalf("Module() error: %v", err)
	}
	if !raw.Nominated {
		t.Error("Nominated = false, want true")
	}
	if raw.Filename != "rocknroll.xm" || raw.Title != "Rock & Roll" || raw.Downloads != "987" {
		t.Errorf("got filename=%q title=%q downloads=%q", raw.Filename, raw.Title, raw.Downloads)
	}

	// Without the badge marker the same layout is read unshifted and the
	// info line lands inside the badge text.
	unmarked := strings.ReplaceAll(string(body), "mod-page-nominated", "mod-page-notice")
	_, err = HTMLExtractor{}.Module([]byte(unmarked), anchor.Defaults())
	if !errors.Is(err, errors.ErrCodeAnchorMismatch) {
		t.Fatalf("unshifted error = %v, want ANCHOR_MISMATCH", err)
	}
	if f := errors.FieldOf(err); f != anchor.InfoLine.String() {
		t.Errorf("FieldOf() = %q, want %q", f, anchor.InfoLine.String())
	}
}

func TestHTMLModuleUntitled(t *testing.T) {
	body := strings.Replace(string(fixture(t, "module.html")), "<b>Info:</b> No Way", "<b>Info:</b>", 1)

	raw, err := HTMLExtractor{}.Module([]byte(body), anchor.Defaults())
	if err != nil {
		t.Fatalf("Module() error: %v", err)
	}
	if raw.Title != "" || raw.Filename != "noway.s3m" || raw.Downloads != "1,234" {
		t.Errorf("got filename=%q title=%q downloads=%q", raw.Filename, raw.Title, raw.Downloads)
	}

	// The filename and download lines still need a value.
	tests := []struct {
		old, new, wantField string
	}{
		{"<b>Filename:</b> noway.s3m", "<b>Filename:</b>", "filename line"},
		{"<b>Downloads:</b> 1,234", "<b>Downloads:</b>", "download line"},
	}
	for _, tt := range tests {
		blank := strings.Replace(string(fixture(t, "module.html")), tt.old, tt.new, 1)
		_, err := HTMLExtractor{}.Module([]byte(blank), anchor.Defaults())
		if !errors.Is(err, errors.ErrCodeAnchorMismatch) || errors.FieldOf(err) != tt.wantField {
			t.Errorf("blank %s: error = %v, want ANCHOR_MISMATCH on %q", tt.wantField, err, tt.wantField)
		}
	}
}

func TestHTMLModuleAnchorMismatch(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		anchors   anchor.Set
		wantField string
	}{
		{
			name:      "drifted layout",
			body:      string(fixture(t, "drifted.html")),
			anchors:   anchor.Defaults(),
			wantField: "info line",
		},
		{
			name:      "no content block",
			body:      "<html><body><p>maintenance</p></body></html>",
			anchors:   anchor.Defaults(),
			wantField: "content block",
		},
		{
			name:      "offset past end",
			body:      string(fixture(t, "module.html")),
			anchors:   anchor.Set{Filename: 1, Info: 3, Download: 40},
			wantField: "download line",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HTMLExtractor{}.Module([]byte(tt.body), tt.anchors)
			if !errors.Is(err, errors.ErrCodeAnchorMismatch) {
				t.Fatalf("error = %v, want ANCHOR_MISMATCH", err)
			}
			if f := errors.FieldOf(err); f != tt.wantField {
				t.Errorf("FieldOf() = %q, want %q", f, tt.wantField)
			}
		})
	}
}

func TestHTMLModuleOverrides(t *testing.T) {
	// The drifted page swaps Size and Info; an override fixes it.
	anchors, err := anchor.ApplyOverrides(anchor.Defaults(), strings.NewReader("1,4,5\n"))
	if err != nil {
		t.Fatalf("ApplyOverrides() error: %v", err)
	}
	raw, err := HTMLExtractor{}.Module(fixture(t, "drifted.html"), anchors)
	if err != nil {
		t.Fatalf("Module() error: %v", err)
	}
	if raw.Title != "No Way" {
		t.Errorf("Title = %q, want %q", raw.Title, "No Way")
	}
}

func TestBlockLines(t *testing.T) {
	doc, err := parseHTML(fixture(t, "module.html"))
	if err != nil {
		t.Fatal(err)
	}
	lines := BlockLines(doc.Find(ContentSelector))
	want := []string{
		"Module Information",
		"Filename: noway.s3m",
		"Module ID: 51772",
		"Info: No Way",
		"Size: 126.41KB",
		"Downloads: 1,234",
	}
	if len(lines) < len(want) {
		t.Fatalf("got %d lines, want at least %d", len(lines), len(want))
	}
	if diff := cmp.Diff(want, lines[:len(want)]); diff != "" {
		t.Errorf("BlockLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLSearch(t *testing.T) {
	got, err := HTMLExtractor{}.Search(fixture(t, "search.html"))
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	want := []RawCandidate{
		{ID: "51772", Filename: "noway.s3m"},
		{ID: "51773", Filename: "noway2.s3m"},
		{ID: "8", Filename: "no_way.mod"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLSearchEmpty(t *testing.T) {
	got, err := HTMLExtractor{}.Search(fixture(t, "search_empty.html"))
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Search() = %#v, want empty non-nil slice", got)
	}
}

func TestHTMLSearchNotASearchPage(t *testing.T) {
	_, err := HTMLExtractor{}.Search(fixture(t, "module.html"))
	if !errors.Is(err, errors.ErrCodeAnchorMismatch) {
		t.Errorf("error = %v, want ANCHOR_MISMATCH", err)
	}
}

func TestHTMLSearchLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><h1 class="site-wide-page-head-title">Search</h1>`)
	for i := 1; i <= MaxCandidates+5; i++ {
		fmt.Fprintf(&b, `<a class="standard-link" title="m.mod" href="index.php?query=%d">m.mod</a>`, i)
	}
	b.WriteString(`</body></html>`)

	got, err := HTMLExtractor{}.Search([]byte(b.String()))
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != MaxCandidates {
		t.Errorf("len = %d, want %d", len(got), MaxCandidates)
	}
}

func TestXMLModule(t *testing.T) {
	raw, err := XMLExtractor{}.Module(fixture(t, "module.xml"), anchor.Defaults())
	if err != nil {
		t.Fatalf("Module() error: %v", err)
	}
	want := RawFields{
		ID:          "51772",
		Filename:    "noway.s3m",
		Title:       "No Way & Back",
		Instruments: "\n bassdrum\n snare",
		Size:        "126.41KB",
		MD5:         "8a3c9f0e5b1d2c4a6f7e8d9c0b1a2f3e",
		Format:      "S3M",
		Channels:    "16",
		Genre:       "Techno",
		Downloads:   "1234",
		Favourites:  "23",
		Uploaded:    "Mon 12th Jul 2004",
		Spotlit:     true,
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("Module() mismatch (-want +got):\n%s", diff)
	}
}

func TestXMLModuleErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      []byte
		wantCode  errors.Code
		wantField string
	}{
		{"missing hits", fixture(t, "module_nohits.xml"), errors.ErrCodeFieldMissing, "hits"},
		{"no module", []byte(`<modarchive></modarchive>`), errors.ErrCodeFieldMissing, "module"},
		{"not found", fixture(t, "error_notfound.xml"), errors.ErrCodeNotFound, ""},
		{"bad key", fixture(t, "error_key.xml"), errors.ErrCodeUnauthorized, ""},
		{"not xml", []byte("<<"), errors.ErrCodeParse, ""},
		{"empty body", nil, errors.ErrCodeParse, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := XMLExtractor{}.Module(tt.body, anchor.Defaults())
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("error = %v, want %s", err, tt.wantCode)
			}
			if tt.wantField != "" && errors.FieldOf(err) != tt.wantField {
				t.Errorf("FieldOf() = %q, want %q", errors.FieldOf(err), tt.wantField)
			}
		})
	}
}

func TestXMLSearch(t *testing.T) {
	got, err := XMLExtractor{}.Search(fixture(t, "search.xml"))
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	want := []RawCandidate{
		{ID: "51772", Filename: "noway.s3m"},
		{ID: "51773", Filename: "noway2.s3m"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}

	got, err = XMLExtractor{}.Search(fixture(t, "error_notfound.xml"))
	if err != nil || len(got) != 0 {
		t.Errorf("Search(not found) = %v, %v; want empty, nil", got, err)
	}
}

func TestXMLRequestCount(t *testing.T) {
	got, err := XMLExtractor{}.RequestCount(fixture(t, "requests.xml"))
	if err != nil {
		t.Fatalf("RequestCount() error: %v", err)
	}
	if got != "1520" {
		t.Errorf("RequestCount() = %q, want %q", got, "1520")
	}

	_, err = XMLExtractor{}.RequestCount(fixture(t, "error_key.xml"))
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("error = %v, want UNAUTHORIZED", err)
	}
}
