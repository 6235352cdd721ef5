// Package integrations provides the HTTP plumbing shared by the GitHub
// API clients.
//
// # Client
//
// [Client] wraps an [http.Client] with default headers (see [Headers]) and
// turns responses into the error taxonomy of pkg/errors:
//
//	client := integrations.NewClient(nil, integrations.Headers(token, "publiccodelooks"))
//	var out searchResponse
//	err := client.Get(ctx, url, &out)
//
// Status mapping:
//
//   - 401 is an Unauthorized fetch error
//   - 429, or 403 with an exhausted quota, is RateLimited with a RetryAfter hint
//   - 404 is [ErrNotFound]
//   - 5xx, transport failures and malformed JSON are Upstream
//   - any other 4xx is Upstream carrying the upstream message
//
// The client never retries. Retry policy belongs to the caller, which knows
// whether an operation is worth repeating.
//
// Every request reports to the hooks in pkg/observability.
//
// The [github] subpackage builds the concrete search, repository and raw
// content calls on top of [Client].
//
// [github]: github.com/takeruhukushima/publiccodelooks/pkg/integrations/github
package integrations
