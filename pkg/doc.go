// Package pkg provides the libraries behind trackermeta, a metadata client
// for The Mod Archive.
//
// # Overview
//
// Trackermeta resolves tracker modules (MOD, S3M, XM, IT) by archive ID or
// filename and returns typed records. It reads either the public HTML pages
// or, with an API key, the XML API. The pkg directory is organized as:
//
//  1. [integrations/modarchive] - The resolver: Get, ResolveFilename,
//     RequestCount, Download
//  2. [extract] - Raw field extraction from HTML and XML documents
//  3. [normalize] - Raw strings to typed [modinfo.Record] values
//  4. [anchor] - Line offsets into the HTML content block
//  5. [config], [errors], [httputil], [observability] - Supporting layers
//
// # Architecture
//
// One resolve flows through:
//
//	HTTP GET (integrations.Client, retried by httputil)
//	         ↓
//	    [extract] package (HTML via anchors, or XML)
//	         ↓
//	    [normalize] package (counts, sizes, dates)
//	         ↓
//	    modinfo.Record
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/trackermeta/pkg/integrations/modarchive"
//	)
//
//	r, _ := modarchive.New(modarchive.Options{})
//	rec, err := r.Get(context.Background(), 51772)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rec.Filename, rec.DownloadCount)
//
// # Error Handling
//
// Every failure carries an [errors.Code]. Network problems are retried
// according to the [httputil.Policy]; layout drift (ANCHOR_MISMATCH), bad
// keys and missing modules are not. See [errors.IsFatal].
//
// [integrations/modarchive]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/integrations/modarchive
// [extract]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/extract
// [normalize]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/normalize
// [anchor]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/anchor
// [config]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/errors
// [errors.Code]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/errors#Code
// [errors.IsFatal]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/errors#IsFatal
// [httputil]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/httputil
// [httputil.Policy]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/httputil#Policy
// [observability]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/observability
// [modinfo.Record]: https://pkg.go.dev/github.com/matzehuels/trackermeta/pkg/modinfo#Record
package pkg
