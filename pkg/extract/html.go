package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/matzehuels/trackermeta/pkg/anchor"
	"github.com/matzehuels/trackermeta/pkg/errors"
)

// Selectors for the archive's module and search pages.
const (
	ContentSelector     = "div.mod-page-archive-info"
	NominatedSelector   = ".mod-page-nominated"
	SpotlitSelector     = ".mod-page-spotlit"
	InstrumentsSelector = "pre.mod-page-instruments"
	SearchTitleSelector = "h1.site-wide-page-head-title"
	SearchRowSelector   = "a.standard-link[title]"
)

// Labels of fields found by scanning rather than by anchor.
const (
	labelModuleID   = "Module ID:"
	labelSize       = "Size:"
	labelMD5        = "MD5:"
	labelFormat     = "Format:"
	labelChannels   = "Channels:"
	labelGenre      = "Genre:"
	labelUploaded   = "Uploaded:"
	labelFavourites = "Favourited:"
)

// HTMLExtractor reads the archive's public web pages.
type HTMLExtractor struct{}

// Kind returns [HTML].
func (HTMLExtractor) Kind() Kind { return HTML }

// Module locates the anchored fields by line index inside the content
// block and scans the remaining lines for labelled optional fields.
func (HTMLExtractor) Module(body []byte, anchors anchor.Set) (RawFields, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return RawFields{}, err
	}
	block := doc.Find(ContentSelector).First()
	if block.Length() == 0 {
		return RawFields{}, errors.Anchor("content block", "")
	}

	raw := RawFields{
		Nominated: doc.Find(NominatedSelector).Length() > 0,
		Spotlit:   doc.Find(SpotlitSelector).Length() > 0,
	}
	lines := BlockLines(block)

	for _, f := range anchor.Fields {
		idx, err := anchors.Lookup(f, raw.Nominated)
		if err != nil {
			return RawFields{}, err
		}
		if idx < 0 || idx >= len(lines) {
			return RawFields{}, errors.Anchor(f.String(), "")
		}
		// Untitled modules leave the info line with just its label.
		v, ok := labelled(lines[idx], f.Label())
		if !ok || (v == "" && f != anchor.InfoLine) {
			return RawFields{}, errors.Anchor(f.String(), lines[idx])
		}
		switch f {
		case anchor.FilenameLine:
			raw.Filename = v
		case anchor.InfoLine:
			raw.Title = v
		case anchor.DownloadLine:
			raw.Downloads = v
		}
	}

	for _, l := range lines {
		scanOptional(&raw, l)
	}
	if pre := doc.Find(InstrumentsSelector).First(); pre.Length() > 0 {
		raw.Instruments = decode(pre.Text())
	}
	return raw, nil
}

func scanOptional(raw *RawFields, line string) {
	targets := []struct {
		label string
		dst   *string
	}{
		{labelModuleID, &raw.ID},
		{labelSize, &raw.Size},
		{labelMD5, &raw.MD5},
		{labelFormat, &raw.Format},
		{labelChannels, &raw.Channels},
		{labelGenre, &raw.Genre},
		{labelUploaded, &raw.Uploaded},
		{labelFavourites, &raw.Favourites},
	}
	for _, t := range targets {
		v, ok := labelled(line, t.label)
		if !ok {
			continue
		}
		if *t.dst == "" {
			*t.dst = v
		}
		break
	}
	// "Favourited: 23 times"
	raw.Favourites = strings.TrimSpace(strings.TrimSuffix(raw.Favourites, "times"))
}

// Search reads the result rows of a filename search page in document order.
func (HTMLExtractor) Search(body []byte) ([]RawCandidate, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return nil, err
	}
	if doc.Find(SearchTitleSelector).Length() == 0 {
		return nil, errors.Anchor("search page title", "")
	}

	out := []RawCandidate{}
	var rowErr error
	doc.Find(SearchRowSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(out) == MaxCandidates {
			return false
		}
		href, _ := s.Attr("href")
		id := queryParam(href)
		if id == "" {
			rowErr = errors.Anchor("search result link", href)
			return false
		}
		out = append(out, RawCandidate{ID: id, Filename: clean(s.Text())})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return out, nil
}

// queryParam returns the query= value of a result link.
func queryParam(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("query"))
}

func parseHTML(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse html")
	}
	return doc, nil
}

// blockElements break text into separate lines.
var blockElements = map[string]bool{
	"br": true, "div": true, "p": true, "li": true, "ul": true, "ol": true,
	"dl": true, "dt": true, "dd": true, "tr": true, "td": true, "th": true,
	"table": true, "section": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
}

// BlockLines renders sel as the trimmed, non-empty text lines a reader
// would see, breaking at block-level elements. Anchors index into this
// slice.
func BlockLines(sel *goquery.Selection) []string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		brk := n.Type == html.ElementNode && blockElements[n.Data]
		if brk {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if brk {
			b.WriteByte('\n')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return splitLines(b.String())
}
