package mission

import "time"

// ConnectedThreshold is how long the link may stay silent before the
// connection indicator goes red.
const ConnectedThreshold = 5 * time.Second

// Stats carries the running maxima and packet accounting for one mission.
type Stats struct {
	MaxAltitude float64
	MaxSpeed    float64

	PacketsReceived int64
	PacketsLost     int64

	lastPacket time.Time
}

// ObserveSample folds one reading into the running maxima.
func (s *Stats) ObserveSample(altitude, speed float64) {
	if altitude > s.MaxAltitude {
		s.MaxAltitude = altitude
	}
	if speed > s.MaxSpeed {
		s.MaxSpeed = speed
	}
}

// MarkReceived accounts for one good packet.
func (s *Stats) MarkReceived(now time.Time) {
	s.PacketsReceived++
	s.lastPacket = now
}

// MarkLost accounts for n lost packets.
func (s *Stats) MarkLost(n int64) {
	s.PacketsLost += n
}

// LossRate returns the fraction of packets lost, in [0,1].
func (s Stats) LossRate() float64 {
	total := s.PacketsReceived + s.PacketsLost
	if total == 0 {
		return 0
	}
	return float64(s.PacketsLost) / float64(total)
}

// SinceLastPacket returns how long the link has been silent, or zero if
// no packet has arrived yet.
func (s *Stats) SinceLastPacket(now time.Time) time.Duration {
	if s.lastPacket.IsZero() {
		return 0
	}
	return now.Sub(s.lastPacket)
}

// Connected reports whether a packet arrived recently enough to call the
// link up.
func (s *Stats) Connected(now time.Time) bool {
	if s.lastPacket.IsZero() {
		return false
	}
	return now.Sub(s.lastPacket) <= ConnectedThreshold
}

// Reset clears everything for a new mission.
func (s *Stats) Reset() {
	*s = Stats{}
}
