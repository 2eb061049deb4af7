package mission

// Phase is the coarse flight stage derived from the altitude trend.
// Phases are ordered; within one mission the tracker never reports a
// phase lower than one already reached.
type Phase int

const (
	PhasePreLaunch Phase = iota
	PhaseAscent
	PhaseDeployment
	PhaseDescent
	PhaseLanding

	NumPhases = int(PhaseLanding) + 1
)

// Altitude thresholds in meters. The descent margin absorbs sensor noise
// so a jittery apogee reading does not flip the tracker into descent.
const (
	liftoffAltitude  = 10
	landingAltitude  = 50
	descentMargin    = 25
	deploymentWindow = 75
)

func (p Phase) String() string {
	switch p {
	case PhasePreLaunch:
		return "pre-launch"
	case PhaseAscent:
		return "ascent"
	case PhaseDeployment:
		return "deployment"
	case PhaseDescent:
		return "descent"
	case PhaseLanding:
		return "landing"
	default:
		return "unknown"
	}
}

// PhaseTracker derives the mission phase from altitude readings. The only
// state carried across calls is the highest phase reached and the peak
// altitude seen, which is what makes transitions one-directional.
type PhaseTracker struct {
	highest      Phase
	peakAltitude float64
}

// Update feeds one altitude reading and returns the current phase.
func (t *PhaseTracker) Update(altitude float64) Phase {
	if altitude > t.peakAltitude {
		t.peakAltitude = altitude
	}

	drop := t.peakAltitude - altitude
	descending := drop > descentMargin

	var p Phase
	switch {
	case t.highest >= PhaseDescent && altitude <= landingAltitude:
		p = PhaseLanding

	case descending && drop > deploymentWindow:
		p = PhaseDescent

	case descending:
		p = PhaseDeployment

	case altitude >= liftoffAltitude:
		p = PhaseAscent

	default:
		p = PhasePreLaunch
	}

	if p < t.highest {
		p = t.highest
	}
	t.highest = p
	return p
}

// Phase returns the highest phase reached so far.
func (t *PhaseTracker) Phase() Phase {
	return t.highest
}

// PeakAltitude returns the highest altitude seen so far.
func (t *PhaseTracker) PeakAltitude() float64 {
	return t.peakAltitude
}

// Reset prepares the tracker for a new mission.
func (t *PhaseTracker) Reset() {
	t.highest = PhasePreLaunch
	t.peakAltitude = 0
}
