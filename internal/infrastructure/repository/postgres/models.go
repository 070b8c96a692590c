package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	Name       string     `db:"name"`
	AgeGroup   string     `db:"age_group"`
	TeamSize   int        `db:"team_size"`
	HomeColors string     `db:"home_colors"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type playerTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	TeamID          string     `db:"team_public_id"`
	UserID          string     `db:"user_id"`
	JerseyNumber    string     `db:"jersey_number"`
	PrimaryPosition string     `db:"primary_position"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	Email           string     `db:"email"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type gameTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	TeamID        string     `db:"team_public_id"`
	Opponent      string     `db:"opponent"`
	KickoffAt     time.Time  `db:"kickoff_at"`
	Phase         string     `db:"phase"`
	FormationCode string     `db:"formation_code"`
	StatsLevel    string     `db:"stats_level"`
	HomeScore     int        `db:"home_score"`
	AwayScore     int        `db:"away_score"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type rosterEntryTableModel struct {
	ID                   int64          `db:"id"`
	GameEventID          string         `db:"game_event_id"`
	GameID               string         `db:"game_public_id"`
	PlayerID             sql.NullString `db:"player_public_id"`
	ExternalPlayerName   string         `db:"external_player_name"`
	ExternalPlayerNumber string         `db:"external_player_number"`
	Position             string         `db:"position"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

type matchEventTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	GameID       string    `db:"game_public_id"`
	EventType    string    `db:"event_type"`
	Period       int       `db:"period"`
	PeriodSecond int       `db:"period_second"`
	PlayerID     string    `db:"player_public_id"`
	PlayerName   string    `db:"player_name"`
	Jersey       string    `db:"jersey"`
	AssistID     string    `db:"assist_public_id"`
	AssistName   string    `db:"assist_name"`
	Position     string    `db:"position"`
	OldPosition  string    `db:"old_position"`
	Reason       string    `db:"reason"`
	OurTeam      bool      `db:"our_team"`
	RecordedAt   time.Time `db:"recorded_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
