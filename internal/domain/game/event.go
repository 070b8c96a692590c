package game

import "time"

// EventType names the match events the service records.
type EventType string

const (
	EventGoal            EventType = "GOAL"
	EventSubstitutionIn  EventType = "SUBSTITUTION_IN"
	EventSubstitutionOut EventType = "SUBSTITUTION_OUT"
	EventPositionChange  EventType = "POSITION_CHANGE"
	EventPeriodStart     EventType = "PERIOD_START"
	EventPeriodEnd       EventType = "PERIOD_END"
	EventFormationChange EventType = "FORMATION_CHANGE"
)

// LineupAffecting reports whether an event of this type can change who is on
// the field, and therefore requires listeners to refetch the roster.
func (t EventType) LineupAffecting() bool {
	switch t {
	case EventSubstitutionIn, EventSubstitutionOut, EventPeriodStart, EventPeriodEnd:
		return true
	}
	return false
}

// MatchEvent is one recorded occurrence in a game's timeline.
type MatchEvent struct {
	ID           string
	GameID       string
	Type         EventType
	Period       int
	PeriodSecond int
	PlayerID     string
	PlayerName   string
	Jersey       string
	AssistID     string
	AssistName   string
	Position     string
	OldPosition  string
	Reason       string
	OurTeam      bool
	Provisional  bool
	RecordedAt   time.Time
}

// FeedAction describes what an inbound feed envelope carries.
type FeedAction string

const (
	FeedCreated           FeedAction = "Created"
	FeedUpdated           FeedAction = "Updated"
	FeedDeleted           FeedAction = "Deleted"
	FeedDuplicateDetected FeedAction = "DuplicateDetected"
	FeedConflictDetected  FeedAction = "ConflictDetected"
)

// Conflict is a concurrent-edit disagreement surfaced by the feed. The
// lineup core only accepts and forwards it; resolution lives in the UI.
type Conflict struct {
	GameID      string
	EventID     string
	Description string
}

// FeedEnvelope is one message on the inbound event feed. GameID is always
// set so routers do not have to inspect the payload.
type FeedEnvelope struct {
	GameID         string
	Action         FeedAction
	Event          *MatchEvent
	DeletedEventID string
	Conflict       *Conflict
}
