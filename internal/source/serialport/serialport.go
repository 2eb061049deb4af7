// Package serialport reads telemetry frames from a serial device.
package serialport

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/parikshit-sat/cansat-ground/internal/source"
	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

const (
	// DefaultBaudRate matches the stock CanSat radio firmware.
	DefaultBaudRate = 9600

	// DefaultReadTimeout bounds one Next call. A tick that produces no
	// complete line within this window counts as a lost packet.
	DefaultReadTimeout = 400 * time.Millisecond

	// pollTimeout is the per-Read timeout on the underlying port, kept
	// short so ctx cancellation is noticed promptly.
	pollTimeout = 50 * time.Millisecond
)

// Config holds the operator-supplied serial link settings.
type Config struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

// Port is a telemetry source backed by a serial device. It is not safe
// for concurrent use; the tick loop is the only caller.
type Port struct {
	name        string
	port        serial.Port
	readTimeout time.Duration

	buf []byte
	tmp [256]byte
}

// Open connects to the configured serial port.
func Open(config Config) (*Port, error) {
	if config.Port == "" {
		return nil, fmt.Errorf("serial port name is required")
	}

	baud := config.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}
	readTimeout := config.ReadTimeout
	if readTimeout == 0 {
		readTimeout = DefaultReadTimeout
	}

	port, err := serial.Open(config.Port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", config.Port, err)
	}
	if err = port.SetReadTimeout(pollTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("setting read timeout: %w", err)
	}

	return &Port{
		name:        config.Port,
		port:        port,
		readTimeout: readTimeout,
	}, nil
}

// Next reads one telemetry line from the device and parses it. Returns
// source.ErrNoData when no complete line arrived within the read window,
// and a telemetry.ErrBadFrame wrapped error for unparseable lines.
func (p *Port) Next(ctx context.Context) (telemetry.Sample, error) {
	deadline := time.Now().Add(p.readTimeout)

	for {
		select {
		case <-ctx.Done():
			return telemetry.Sample{}, ctx.Err()
		default:
		}

		if i := bytes.IndexByte(p.buf, '\n'); i >= 0 {
			line := string(p.buf[:i])
			p.buf = p.buf[i+1:]

			if len(bytes.TrimSpace([]byte(line))) == 0 {
				continue // blank keep-alive line
			}
			return telemetry.ParseLine(line)
		}

		if time.Now().After(deadline) {
			return telemetry.Sample{}, source.ErrNoData
		}

		n, err := p.port.Read(p.tmp[:])
		if err != nil {
			return telemetry.Sample{}, fmt.Errorf("reading serial port %s: %w", p.name, err)
		}
		if n > 0 {
			p.buf = append(p.buf, p.tmp[:n]...)
		}
	}
}

// Describe identifies the source for session records.
func (p *Port) Describe() (string, string) {
	return "serial", p.name
}

// Close releases the serial port.
func (p *Port) Close() error {
	return p.port.Close()
}

// ListPorts enumerates the serial ports currently available on this host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerating serial ports: %w", err)
	}
	return ports, nil
}
