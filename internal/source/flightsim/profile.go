package flightsim

import "math"

// Mission timeline in simulated seconds. The profile is the closed-form
// solution of the kinematics the CanSat flies: exponential approach to
// apogee under a constant-thrust balloon ascent, a short parachute
// deployment deceleration, then terminal-velocity descent.
const (
	LiftoffTime    = 5   // pad hold before launch
	DeploymentTime = 120 // parachute deployment begins
	DescentTime    = 125 // deployment transient settled
	LandingTime    = 240 // everything pinned to zero from here
	Duration       = 250 // one full mission

	MaxAltitude = 1000 // meters, asymptotic ascent target

	ascentRate      = 8   // m/s initial ascent rate
	ascentTimeConst = 125 // seconds, ascent time constant (MaxAltitude/ascentRate)
	descentRate     = 5   // m/s terminal descent speed
	deployDecel     = 20  // m/s² deceleration while the canopy fills
)

// AltitudeAt returns the noise-free altitude in meters at simulated time t.
func AltitudeAt(t float64) float64 {
	switch {
	case t < LiftoffTime:
		return 0

	case t < DeploymentTime:
		return ascentAltitude(t)

	case t < DescentTime:
		return deploymentAltitude(t - DeploymentTime)

	case t < LandingTime:
		alt := deploymentAltitude(DescentTime-DeploymentTime) - descentRate*(t-DescentTime)
		return math.Max(0, alt)

	default:
		return 0
	}
}

// VelocityAt returns the noise-free vertical velocity in m/s at simulated
// time t. Positive is up.
func VelocityAt(t float64) float64 {
	switch {
	case t < LiftoffTime:
		return 0

	case t < DeploymentTime:
		return ascentRate * (1 - ascentAltitude(t)/MaxAltitude)

	case t < DescentTime:
		return deploymentVelocity(t - DeploymentTime)

	case t < LandingTime:
		if AltitudeAt(t) <= 0 {
			return 0
		}
		return -descentRate

	default:
		return 0
	}
}

func ascentAltitude(t float64) float64 {
	return MaxAltitude * (1 - math.Exp(-(t-LiftoffTime)/ascentTimeConst))
}

// deploymentVelocity ramps from the residual ascent rate down to the
// terminal descent rate at deployDecel, then holds.
func deploymentVelocity(dt float64) float64 {
	v0 := ascentRate * (1 - ascentAltitude(DeploymentTime)/MaxAltitude)
	v := v0 - deployDecel*dt
	return math.Max(v, -descentRate)
}

func deploymentAltitude(dt float64) float64 {
	v0 := ascentRate * (1 - ascentAltitude(DeploymentTime)/MaxAltitude)
	cross := (v0 + descentRate) / deployDecel

	base := ascentAltitude(DeploymentTime)
	if dt <= cross {
		return base + v0*dt - 0.5*deployDecel*dt*dt
	}
	settled := base + v0*cross - 0.5*deployDecel*cross*cross
	return settled - descentRate*(dt-cross)
}
