package game

import (
	"fmt"
	"time"
)

// Phase is where a game is in its lifecycle. It decides how lineup changes
// commit: immediately one by one before kickoff, queued and batched at
// halftime, and as clock-stamped substitutions during live play.
type Phase string

const (
	PhasePreGame    Phase = "PRE_GAME"
	PhaseFirstHalf  Phase = "FIRST_HALF"
	PhaseHalftime   Phase = "HALFTIME"
	PhaseSecondHalf Phase = "SECOND_HALF"
	PhaseFinal      Phase = "FINAL"
)

func (p Phase) Live() bool {
	return p == PhaseFirstHalf || p == PhaseSecondHalf
}

// Period returns the playing period a phase belongs to; halftime counts
// toward the upcoming second period.
func (p Phase) Period() int {
	switch p {
	case PhasePreGame, PhaseFirstHalf:
		return 1
	case PhaseHalftime, PhaseSecondHalf, PhaseFinal:
		return 2
	default:
		return 1
	}
}

// StatsTrackingLevel controls how much player detail is captured per event.
type StatsTrackingLevel string

const (
	// StatsFull captures scorer, assist and lineup attribution.
	StatsFull StatsTrackingLevel = "FULL"
	// StatsScorerOnly captures the scorer but no assist or lineup detail.
	StatsScorerOnly StatsTrackingLevel = "SCORER_ONLY"
	// StatsGoalsOnly captures the score change with no player detail.
	StatsGoalsOnly StatsTrackingLevel = "GOALS_ONLY"
)

func (l StatsTrackingLevel) Valid() bool {
	switch l {
	case StatsFull, StatsScorerOnly, StatsGoalsOnly:
		return true
	}
	return false
}

// Game is one scheduled match.
type Game struct {
	ID            string
	TeamID        string
	Opponent      string
	KickoffAt     time.Time
	Phase         Phase
	FormationCode string
	StatsLevel    StatsTrackingLevel
	HomeScore     int
	AwayScore     int
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.TeamID == "" {
		return fmt.Errorf("game team id is required")
	}
	if !g.StatsLevel.Valid() {
		return fmt.Errorf("invalid stats tracking level: %s", g.StatsLevel)
	}

	return nil
}

// Clock is a moment in match time, used to stamp auditable lineup events.
type Clock struct {
	Period       int
	PeriodSecond int
}
