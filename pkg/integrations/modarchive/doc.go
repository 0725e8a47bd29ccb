// Package modarchive resolves module metadata from The Mod Archive.
//
// # Overview
//
// A [Resolver] turns a module ID into a [modinfo.Record], a filename query
// into a list of [modinfo.Candidate], and fetches module files. Each call
// issues one logical request, retried according to the configured
// [httputil.Policy]:
//
//	r, err := modarchive.New(modarchive.Options{APIKey: os.Getenv("MODARCH_KEY")})
//	rec, err := r.Get(ctx, 51772)
//	fmt.Println(rec.Title, rec.DownloadLink())
//
// # Document Kinds
//
// With an API key the resolver reads the XML API, which locates fields by
// tag and does not care about page layout. Without a key it scrapes the
// public pages using the anchor table. Options.Kind forces either.
//
// # Retry
//
// Only transport failures (connection errors, timeouts, 429, 5xx) are
// retried. Refusals, missing modules and documents that do not match the
// expected structure fail after the first attempt, even under an unbounded
// policy. Cancelling the context stops any retry loop.
//
// A Resolver is immutable; [Resolver.WithRetry] returns a copy with a
// different policy. It is safe for concurrent use.
//
// [modinfo.Record]: github.com/matzehuels/trackermeta/pkg/modinfo.Record
// [modinfo.Candidate]: github.com/matzehuels/trackermeta/pkg/modinfo.Candidate
// [httputil.Policy]: github.com/matzehuels/trackermeta/pkg/httputil.Policy
package modarchive
