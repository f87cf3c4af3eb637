// Package bolt implements the driven ports for the Bolt by ECI open API.
//
// # Components
//
//   - Classify: decides whether a response is usable, retryable or fatal
//   - Client: issues authenticated GETs with a bounded, linear retry loop
//   - Upstream: decodes batch and event pages and extracts record arrays
//   - Normaliser: flattens raw records into the declared column set
//   - RateLimiter: spaces requests under the 1000 calls/hour ceiling
//   - Tables / Schema: the static table registry and schema declaration
//
// # Pagination
//
// Entity tables page with an opaque next_batch token and may hand out a
// refresh_token that re-anchors the stream on a later run. The three
// change-event streams page with a monotonic event_token seeded from a
// vendor-issued bootstrap token.
package bolt
