// Package acl provides the Anti-Corruption Layer between the remote quote API
// and the domain.
//
// The quote API is a json-server style collection: records are plain JSON
// objects under /quotes with an integer id, text, author and a list of
// scheduled dates. Nothing from that representation leaks past this package:
//
//   - Wire records are unexported DTOs translated to [domain.Quote]
//   - Ids written as numeric strings are accepted on read
//   - Dates are written as 2006-01-02 and accepted as either that layout or
//     a full RFC 3339 timestamp, as browser clients tend to store them
//   - HTTP status codes and error bodies map to domain errors
//
// # Package Components
//
//   - [QuoteGateway]: implements ports.QuoteGateway and ports.HealthChecker
//   - [BaseAdapter]: embeddable request helpers with error mapping
//   - [MapHTTPError]: HTTP status code to domain error mapping
//   - [ParseErrorResponse]: JSON error body parsing
//   - [DecodeResponse]: generic JSON response decoder
//   - [TranslateSlice]: batch translation helper
//
// # Error Mapping
//
//	404                 → domain.NotFoundError (carries the quote id)
//	409                 → domain.ConflictError
//	400, 422            → domain.ValidationError
//	401, 403            → domain.ForbiddenError
//	429, 5xx            → domain.UnavailableError
//	circuit open        → domain.UnavailableError
//	no response         → domain.UnavailableError
//
// The HTTP client never retries POST, so a failed create is reported once
// and left to the user to resubmit.
package acl
