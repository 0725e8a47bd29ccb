// Package integrations provides the HTTP plumbing for archive clients.
//
// # Overview
//
// The archive client lives in a subpackage:
//
//   - [modarchive]: module metadata, filename search and downloads from
//     The Mod Archive
//
// # Transport
//
// Archive clients never talk to net/http directly. They fetch bodies
// through a [Transport], which makes the network boundary replaceable in
// tests:
//
//	client := integrations.NewClient(10*time.Second, nil)
//	body, err := client.Get(ctx, "https://modarchive.org/index.php?...")
//
// [Client] is the production Transport. It handles:
//   - default headers (User-Agent)
//   - status mapping: 401/403 UNAUTHORIZED, 400 BAD_REQUEST, 404 NOT_FOUND
//   - marking 429, 5xx, timeouts and connection failures retryable
//   - masking API keys before URLs reach logs or error messages
//
// Retrying is not done here; callers wrap Get in [httputil.Retry] with the
// policy of their choice.
//
// [modarchive]: github.com/matzehuels/trackermeta/pkg/integrations/modarchive
// [httputil.Retry]: github.com/matzehuels/trackermeta/pkg/httputil.Retry
package integrations
