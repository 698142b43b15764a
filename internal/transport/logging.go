// SPDX-License-Identifier: MIT
package transport

import (
	"sigviz/internal/log"
)

// LoggingTransport writes a debug line per update instead of shipping
// it anywhere. Useful as a sink when no client-facing transport is
// configured.
type LoggingTransport struct{}

var _ Transport = (*LoggingTransport)(nil)

func (LoggingTransport) Send(v any) error {
	log.Debugf("update: %+v", v)
	return nil
}

func (LoggingTransport) Close() error { return nil }
