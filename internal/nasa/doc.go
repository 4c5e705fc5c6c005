// Package nasa provides an HTTP client for the NASA open API gateway.
//
// # Overview
//
// The client reads four public feeds and decodes them into typed payloads:
//
//   - GET /planetary/apod: Astronomy Picture of the Day
//   - GET /mars-photos/api/v1/rovers/{rover}/photos?sol=N: rover camera frames
//   - GET /neo/rest/v1/feed?start_date=YYYY-MM-DD: near-Earth objects by date
//   - GET /EPIC/api/natural/images: latest EPIC Earth imagery metadata
//
// Every request carries the configured key as the api_key query parameter.
// When no key is configured the shared DEMO_KEY is used, which NASA rate
// limits aggressively.
//
// # Client Usage
//
//	client, err := nasa.NewClient("", cfg.APIKey)
//	if err != nil {
//		return err
//	}
//	apod, err := client.FetchAPOD(ctx)
//
// EPIC metadata only names the image; the PNG itself lives in the archive and
// is addressed through ArchiveURL:
//
//	/EPIC/archive/natural/2024/05/01/png/epic_1b_20240501001303.png?api_key=...
//
// # Error Handling
//
// Failures fall into three groups that callers treat differently:
//
//   - Transport errors ("execute request: ..."): connection refused, DNS, timeout
//   - *StatusError: the gateway answered with a non-2xx status (429 when rate limited)
//   - *DecodeError: a 2xx body that could not be read or parsed
//
// Classify folds any returned error into a Reason for display and metrics.
//
// # Design Notes
//
// The client performs no caching and no retries. A fixed 30 second timeout
// bounds each request. Rover and sol arguments are validated before any
// network traffic happens.
package nasa
