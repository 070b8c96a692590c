package app

import (
	"time"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/usecase"
)

// matchClock derives a best-effort match clock from wall time. Periods carry
// no recorded start timestamps, so the second half is assumed to begin one
// half length after kickoff and seconds are clamped to the half length.
func matchClock(halfDuration time.Duration, now func() time.Time) usecase.ClockFunc {
	if now == nil {
		now = time.Now
	}

	return func(g game.Game) game.Clock {
		clock := game.Clock{Period: g.Phase.Period()}
		if !g.Phase.Live() || g.KickoffAt.IsZero() {
			return clock
		}

		elapsed := now().Sub(g.KickoffAt)
		if clock.Period == 2 {
			elapsed -= halfDuration
		}

		seconds := int(elapsed / time.Second)
		limit := int(halfDuration / time.Second)
		if seconds < 0 {
			seconds = 0
		}
		if seconds > limit {
			seconds = limit
		}
		clock.PeriodSecond = seconds

		return clock
	}
}
