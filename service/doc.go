// Package service serves an expression filter over HTTP.  Clients post
// batches of readings and receive them back with the filter applied, and
// may inspect or replace the filter configuration while the service runs.
//
// Endpoints:
//
//	GET  /status    filter state and counters
//	GET  /version   service version
//	GET  /metrics   Prometheus metrics
//	GET  /config    current filter configuration
//	PUT  /config    replace the filter configuration
//	POST /readings  apply the filter to newline delimited JSON readings
package service
