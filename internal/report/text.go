package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/parikshit-sat/cansat-ground/internal/mission"
	"github.com/parikshit-sat/cansat-ground/internal/storage"
)

// Report bundles everything a rendered mission report needs. Mission is
// optional: exports loaded from a bare CSV have no stored metadata.
type Report struct {
	Mission *storage.Mission
	Summary Summary
	Alerts  []mission.Alert
}

const reportBanner = "===== CANSAT MISSION REPORT ====="

// WriteText renders the report as plain text.
func WriteText(w io.Writer, r Report) error {
	var err error

	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("%s\n\n", reportBanner)

	if m := r.Mission; m != nil {
		p("Mission:     %s\n", m.RunID)
		p("Source:      %s (%s)\n", m.SourceType, m.SourceID)
		p("Started:     %s (%s)\n", m.StartTime.Local().Format(time.DateTime), humanize.Time(m.StartTime))
	}

	s := r.Summary
	p("Samples:     %s\n", humanize.Comma(int64(s.SampleCount)))
	p("Duration:    %.1f s\n", s.Duration)
	p("Final phase: %s\n", s.FinalPhase)

	p("\n--- Flight ---\n")
	p("Apogee:        %s m at t=%.1f s\n", humanize.CommafWithDigits(s.MaxAltitude, 1), s.ApogeeTime)
	p("Max speed:     %.1f m/s\n", s.MaxSpeed)
	p("Temperature:   %.1f to %.1f C\n", s.MinTemperature, s.MaxTemperature)
	p("Max rotation:  %.1f deg/s\n", s.MaxRotationRate)

	p("\n--- Phases ---\n")
	for phase := mission.PhasePreLaunch; phase <= mission.PhaseLanding; phase++ {
		p("%-12s %.1f s\n", phase.String()+":", s.PhaseDurations[phase])
	}

	p("\n--- Alerts ---\n")
	if len(r.Alerts) == 0 {
		p("none\n")
	}
	for _, a := range r.Alerts {
		p("[%s] %-8s %s\n", a.Timestamp.Local().Format("15:04:05"), a.Severity, a.Message)
	}

	return err
}
