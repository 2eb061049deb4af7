// Package source defines where telemetry samples come from: a real device
// on a serial link, or the flight simulator.
package source

import (
	"context"
	"errors"

	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

// ErrNoData is returned by Next when no packet arrived within the source's
// read window. The caller counts it as a lost packet and carries on.
var ErrNoData = errors.New("no telemetry data available")

// Source supplies one telemetry sample per call. Next blocks at most for
// the source's configured read window; implementations must honor ctx
// cancellation. A malformed packet is reported via telemetry.ErrBadFrame.
type Source interface {
	Next(ctx context.Context) (telemetry.Sample, error)
	Describe() (sourceType, sourceID string)
	Close() error
}
