// Package requestid propagates request correlation IDs.
//
// Middleware attaches an ID to every request (reusing a valid X-Request-ID
// header) and the authorization engine copies it into audit events, so a
// denial can be traced back to the request that caused it.
package requestid
