package telemetry

import (
	"math"
)

// NumFields is the number of values in one telemetry packet. The wire
// format and the CSV export both carry exactly this many columns, in the
// order of the Sample fields.
const NumFields = 13

// Sample is one parsed telemetry packet from the CanSat sensors.
type Sample struct {
	Time        float64 // Seconds since device boot
	Altitude    float64 // Barometric altitude in meters
	Temperature float64 // Temperature in °C
	Pressure    float64 // Pressure in hPa
	Humidity    float64 // Relative humidity in %
	GyroX       float64 // X-axis rotation rate in deg/s
	GyroY       float64 // Y-axis rotation rate in deg/s
	GyroZ       float64 // Z-axis rotation rate in deg/s
	AccelX      float64 // X-axis acceleration in m/s²
	AccelY      float64 // Y-axis acceleration in m/s²
	AccelZ      float64 // Z-axis acceleration in m/s²
	Latitude    float64 // GPS latitude in degrees
	Longitude   float64 // GPS longitude in degrees
}

// FieldNames returns the column names in wire order. Used for the CSV
// export header and validated on load.
func FieldNames() []string {
	return []string{
		"Time", "Altitude", "Temperature", "Pressure", "Humidity",
		"Gyro_X", "Gyro_Y", "Gyro_Z",
		"Accel_X", "Accel_Y", "Accel_Z",
		"Latitude", "Longitude",
	}
}

// Values returns the sample fields in wire order.
func (s Sample) Values() [NumFields]float64 {
	return [NumFields]float64{
		s.Time, s.Altitude, s.Temperature, s.Pressure, s.Humidity,
		s.GyroX, s.GyroY, s.GyroZ,
		s.AccelX, s.AccelY, s.AccelZ,
		s.Latitude, s.Longitude,
	}
}

// FromValues builds a Sample from values in wire order.
func FromValues(v [NumFields]float64) Sample {
	return Sample{
		Time: v[0], Altitude: v[1], Temperature: v[2], Pressure: v[3], Humidity: v[4],
		GyroX: v[5], GyroY: v[6], GyroZ: v[7],
		AccelX: v[8], AccelY: v[9], AccelZ: v[10],
		Latitude: v[11], Longitude: v[12],
	}
}

// RotationRate returns the magnitude of the gyroscope vector in deg/s.
func (s Sample) RotationRate() float64 {
	return math.Sqrt(s.GyroX*s.GyroX + s.GyroY*s.GyroY + s.GyroZ*s.GyroZ)
}

// AccelMagnitude returns the magnitude of the accelerometer vector in m/s².
func (s Sample) AccelMagnitude() float64 {
	return math.Sqrt(s.AccelX*s.AccelX + s.AccelY*s.AccelY + s.AccelZ*s.AccelZ)
}
