// SPDX-License-Identifier: MIT

// Package transport broadcasts analysis updates to external consumers.
package transport

// Transport publishes analysis payloads. Send must be cheap and never
// block the caller; implementations drop rather than queue.
type Transport interface {
	Send(v any) error
	Close() error
}
