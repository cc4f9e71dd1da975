// Package alert periodically re-runs the agent for every rider who opted
// into alerts and texts them when their home spot scores well.
package alert

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/windwizard/windwizard/pkg/agent"
	"github.com/windwizard/windwizard/pkg/profile"
)

// Lookahead for a sweep, in hours. Short on purpose: an alert is about the
// next session, not the week.
const sweepHours = 6

// Sweeper walks the profile store on a schedule.
type Sweeper struct {
	planner  *agent.Planner
	profiles *profile.Store
}

func NewSweeper(planner *agent.Planner, profiles *profile.Store) *Sweeper {
	return &Sweeper{
		planner:  planner,
		profiles: profiles,
	}
}

// Start runs sweeps on a cron schedule ("@hourly", "0 6 * * *", ...) until
// the returned stop function is called.
func (s *Sweeper) Start(schedule string) (stop func(), err error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, s.Sweep); err != nil {
		return nil, err
	}
	c.Start()
	return func() { c.Stop() }, nil
}

// Sweep runs the agent once for every rider with alerts on. The planner
// itself sends the SMS when the score clears the threshold.
func (s *Sweeper) Sweep() {
	for _, id := range s.profiles.UserIDs() {
		p := s.profiles.Get(id)
		if !p.Alerts || p.Phone == "" {
			continue
		}
		rec, err := s.planner.Compute(id, p.HomeLat, p.HomeLon, sweepHours, true)
		if err != nil {
			log.Printf("Alert sweep for %q failed: %v", id, err)
			continue
		}
		log.Printf("Alert sweep for %q: stoke %d/100", id, rec.Score)
	}
}
