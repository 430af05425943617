// Package sse implements the streaming search wire protocol over
// server-sent events.
//
// The search server exposes GET /search/stream, which responds with a
// text/event-stream of named events (matches, progress, filters, alert,
// error, done). This adapter encodes search requests into the protocol's
// query string, parses the SSE framing, and decodes each event payload
// into the domain's SearchEvent union. Core services only ever see the
// decoded events; the wire format stays inside this package.
package sse
