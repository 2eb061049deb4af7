package telemetry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadFrame is returned when a telemetry line does not contain exactly
// NumFields parseable numeric values. Callers treat such lines as lost
// packets, not fatal errors.
var ErrBadFrame = errors.New("malformed telemetry frame")

// ParseLine parses one wire-format telemetry line: NumFields comma-separated
// decimal values in Sample field order. Surrounding whitespace around each
// value is ignored.
func ParseLine(line string) (Sample, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != NumFields {
		return Sample{}, fmt.Errorf("%w: expected %d fields, got %d", ErrBadFrame, NumFields, len(parts))
	}

	var values [NumFields]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: field %d %q: %w", ErrBadFrame, i, part, err)
		}
		values[i] = v
	}

	return FromValues(values), nil
}

// EncodeLine renders a sample as one wire-format line without the trailing
// newline. ParseLine(EncodeLine(s)) reproduces s exactly.
func EncodeLine(s Sample) string {
	values := s.Values()

	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return sb.String()
}
