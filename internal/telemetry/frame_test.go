package telemetry

import (
	"errors"
	"testing"
)

func TestParseLine(t *testing.T) {
	line := "12.5,340.2,22.1,972.3,48.9,10.1,-4.2,15.7,0.3,-0.1,9.81,13.3379,74.7461"

	s, err := ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}

	if s.Time != 12.5 {
		t.Errorf("Time: expected 12.5, got %v", s.Time)
	}
	if s.Altitude != 340.2 {
		t.Errorf("Altitude: expected 340.2, got %v", s.Altitude)
	}
	if s.GyroY != -4.2 {
		t.Errorf("GyroY: expected -4.2, got %v", s.GyroY)
	}
	if s.Longitude != 74.7461 {
		t.Errorf("Longitude: expected 74.7461, got %v", s.Longitude)
	}
}

func TestParseLine_Whitespace(t *testing.T) {
	line := " 1, 2 ,3,4,5,6,7,8,9,10,11,12,13 \r\n"

	s, err := ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if s.Time != 1 || s.Longitude != 13 {
		t.Errorf("unexpected values: %+v", s)
	}
}

func TestParseLine_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"short", "1,2,3"},
		{"long", "1,2,3,4,5,6,7,8,9,10,11,12,13,14"},
		{"non-numeric", "1,2,x,4,5,6,7,8,9,10,11,12,13"},
		{"garbage", "READY"},
		{"missing value", "1,2,,4,5,6,7,8,9,10,11,12,13"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLine(tc.line)
			if err == nil {
				t.Fatal("expected error for malformed line")
			}
			if !errors.Is(err, ErrBadFrame) {
				t.Errorf("expected ErrBadFrame, got %v", err)
			}
		})
	}
}

func TestEncodeLine_RoundTrip(t *testing.T) {
	s := Sample{
		Time: 101.5, Altitude: 998.25, Temperature: -3.2, Pressure: 893.1, Humidity: 51.7,
		GyroX: 48.3, GyroY: -39.9, GyroZ: 61.02,
		AccelX: 0.12, AccelY: -0.4, AccelZ: -15.3,
		Latitude: 13.3379, Longitude: 74.7461,
	}

	got, err := ParseLine(EncodeLine(s))
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if got != s {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", s, got)
	}
}

func TestRotationRate(t *testing.T) {
	s := Sample{GyroX: 3, GyroY: 4, GyroZ: 0}
	if rate := s.RotationRate(); rate != 5 {
		t.Errorf("expected rotation rate 5, got %v", rate)
	}
}
