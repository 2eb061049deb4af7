package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

// ExportFilename returns the conventional name for a mission CSV export
// started at t, e.g. "cansat_mission_20250314_090000.csv".
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("cansat_mission_%s.csv", t.Format("20060102_150405"))
}

// WriteCSV writes samples to w with a header row, one sample per line.
// The column set and order match the radio frame.
func WriteCSV(w io.Writer, samples []telemetry.Sample) (err error) {
	cw := csv.NewWriter(w)

	if err = cw.Write(telemetry.FieldNames()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, telemetry.NumFields)
	for _, s := range samples {
		for i, v := range s.Values() {
			record[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err = cw.Write(record); err != nil {
			return fmt.Errorf("writing sample: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes samples to a new file at path. The file is created
// exclusively so an existing export is never clobbered.
func ExportCSV(path string, samples []telemetry.Sample) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer closeWithError(f, &err)

	if err = WriteCSV(f, samples); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// ReadCSV parses a mission export back into samples. A header row is
// required; every data row must carry the full column set.
func ReadCSV(r io.Reader) ([]telemetry.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = telemetry.NumFields

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, name := range telemetry.FieldNames() {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected column %d: %q", i, header[i])
		}
	}

	var samples []telemetry.Sample
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		var values [telemetry.NumFields]float64
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing column %q: %w", header[i], err)
			}
			values[i] = v
		}
		samples = append(samples, telemetry.FromValues(values))
	}
	return samples, nil
}

// ReadCSVFile parses the mission export at path.
func ReadCSVFile(path string) (samples []telemetry.Sample, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export file: %w", err)
	}
	defer closeWithError(f, &err)

	if samples, err = ReadCSV(f); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	return samples, nil
}
