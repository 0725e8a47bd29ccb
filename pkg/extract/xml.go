package extract

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/trackermeta/pkg/anchor"
	"github.com/matzehuels/trackermeta/pkg/errors"
)

// XMLExtractor reads responses of the archive's XML API.
type XMLExtractor struct{}

// Kind returns [XML].
func (XMLExtractor) Kind() Kind { return XML }

// Module reads the first <module> element. Anchors are ignored; fields are
// found by tag name. filename, songtitle, size and hits are required.
func (XMLExtractor) Module(body []byte, _ anchor.Set) (RawFields, error) {
	doc, err := parseXML(body)
	if err != nil {
		return RawFields{}, err
	}
	mod := doc.FindElement("//module")
	if mod == nil {
		return RawFields{}, errors.Missing("module")
	}

	var raw RawFields
	required := []struct {
		tags []string
		dst  *string
	}{
		{[]string{"filename"}, &raw.Filename},
		{[]string{"songtitle", "title"}, &raw.Title},
		{[]string{"size"}, &raw.Size},
		{[]string{"hits"}, &raw.Downloads},
	}
	for _, r := range required {
		e := findAny(mod, r.tags...)
		if e == nil {
			return RawFields{}, errors.Missing(r.tags[0])
		}
		*r.dst = clean(e.Text())
	}

	if e := mod.SelectElement("id"); e != nil {
		raw.ID = clean(e.Text())
	}
	optional := []struct {
		tag string
		dst *string
	}{
		{"hash", &raw.MD5},
		{"format", &raw.Format},
		{"channels", &raw.Channels},
		{"genretext", &raw.Genre},
		{"date", &raw.Uploaded},
		{"favoured", &raw.Favourites},
	}
	for _, o := range optional {
		if e := findAny(mod, o.tag); e != nil {
			*o.dst = clean(e.Text())
		}
	}
	if e := findAny(mod, "instruments"); e != nil {
		raw.Instruments = decode(e.Text())
	}
	if e := mod.FindElement("./featured/state"); e != nil {
		state := strings.ToLower(e.Text())
		raw.Spotlit = strings.Contains(state, "spotlit")
		raw.Nominated = strings.Contains(state, "nominated")
	}
	return raw, nil
}

// Search reads <module> entries of a search response in document order.
func (XMLExtractor) Search(body []byte) ([]RawCandidate, error) {
	doc, err := parseXML(body)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return []RawCandidate{}, nil
		}
		return nil, err
	}
	out := []RawCandidate{}
	for _, mod := range doc.FindElements("//module") {
		if len(out) == MaxCandidates {
			break
		}
		id, name := mod.SelectElement("id"), mod.SelectElement("filename")
		if id == nil {
			return nil, errors.Missing("id")
		}
		if name == nil {
			return nil, errors.Missing("filename")
		}
		out = append(out, RawCandidate{ID: clean(id.Text()), Filename: clean(name.Text())})
	}
	return out, nil
}

// RequestCount reads the API key's used request count from a
// view_requests response.
func (XMLExtractor) RequestCount(body []byte) (string, error) {
	doc, err := parseXML(body)
	if err != nil {
		return "", err
	}
	e := doc.FindElement("//requests/current")
	if e == nil {
		return "", errors.Missing("current")
	}
	return clean(e.Text()), nil
}

// parseXML reads body and turns an <error> response into a typed error.
func parseXML(body []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse xml")
	}
	if doc.Root() == nil {
		return nil, errors.New(errors.ErrCodeParse, "empty xml document")
	}
	if e := doc.FindElement("//error"); e != nil {
		msg := clean(e.Text())
		if strings.Contains(strings.ToLower(msg), "key") {
			return nil, errors.New(errors.ErrCodeUnauthorized, "archive rejected api key: %s", msg)
		}
		return nil, errors.New(errors.ErrCodeNotFound, "archive error: %s", msg)
	}
	return doc, nil
}

// findAny returns the first direct child, then the first descendant,
// matching one of tags.
func findAny(e *etree.Element, tags ...string) *etree.Element {
	for _, t := range tags {
		if c := e.SelectElement(t); c != nil {
			return c
		}
	}
	for _, t := range tags {
		if c := e.FindElement(".//" + t); c != nil {
			return c
		}
	}
	return nil
}
