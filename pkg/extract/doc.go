// Package extract pulls raw metadata fields out of archive documents.
//
// # Document kinds
//
// The archive serves the same information in two generations:
//
//   - [HTML]: the public module pages. Fields are located positionally
//     with an [anchor.Set]: the content block's text is read as lines and
//     each anchored field is expected at its line index with its label.
//   - [XML]: the official API. Fields are found by element tag name, which
//     is not positional and therefore more robust. It needs an API key.
//
// Both implement [Extractor], so callers switch generation without knowing
// where positional knowledge lives:
//
//	ex := extract.For(extract.XML)
//	raw, err := ex.Module(body, anchors)
//
// # Failures
//
// A document that no longer matches the expected structure fails with an
// ANCHOR_MISMATCH (HTML) or FIELD_MISSING (XML) error naming the field, the
// signal that the upstream layout drifted. Optional fields never fail
// extraction; they are left empty for the normalizer to default.
//
// Text values are HTML-entity decoded before they are returned.
//
// [anchor.Set]: github.com/matzehuels/trackermeta/pkg/anchor.Set
package extract
