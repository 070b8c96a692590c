package memory

import (
	"time"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/domain/roster"
	"github.com/matchdayhq/matchday/internal/domain/team"
)

const (
	TeamIDThunderU12 = "thunder-u12"
	TeamIDCometsU10  = "comets-u10"

	GameIDThunderSaturday = "thunder-u12-2026-03-07"
	GameIDCometsSunday    = "comets-u10-2026-03-08"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDThunderU12, Name: "Westside Thunder", AgeGroup: "U12", TeamSize: 9, HomeColors: "navy"},
		{ID: TeamIDCometsU10, Name: "Riverside Comets", AgeGroup: "U10", TeamSize: 7, HomeColors: "green"},
	}
}

func SeedGames() []game.Game {
	return []game.Game{
		{
			ID:            GameIDThunderSaturday,
			TeamID:        TeamIDThunderU12,
			Opponent:      "Eastside Rovers",
			KickoffAt:     time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC),
			Phase:         game.PhasePreGame,
			FormationCode: "3-3-2",
			StatsLevel:    game.StatsFull,
		},
		{
			ID:            GameIDCometsSunday,
			TeamID:        TeamIDCometsU10,
			Opponent:      "Harbor FC",
			KickoffAt:     time.Date(2026, 3, 8, 11, 0, 0, 0, time.UTC),
			Phase:         game.PhasePreGame,
			FormationCode: "2-3-1",
			StatsLevel:    game.StatsGoalsOnly,
		},
	}
}

func SeedPlayers() []roster.Player {
	return []roster.Player{
		{ID: "thunder-p01", TeamID: TeamIDThunderU12, JerseyNumber: "1", PrimaryPosition: "GK", FirstName: "Maya", LastName: "Okafor"},
		{ID: "thunder-p02", TeamID: TeamIDThunderU12, JerseyNumber: "2", PrimaryPosition: "LB", FirstName: "Jonas", LastName: "Whitfield"},
		{ID: "thunder-p03", TeamID: TeamIDThunderU12, JerseyNumber: "4", PrimaryPosition: "CB", FirstName: "Priya", LastName: "Natarajan"},
		{ID: "thunder-p04", TeamID: TeamIDThunderU12, JerseyNumber: "5", PrimaryPosition: "RB", FirstName: "Dylan", LastName: "Mercado"},
		{ID: "thunder-p05", TeamID: TeamIDThunderU12, JerseyNumber: "6", PrimaryPosition: "LM", FirstName: "Sofia", LastName: "Brandt"},
		{ID: "thunder-p06", TeamID: TeamIDThunderU12, JerseyNumber: "8", PrimaryPosition: "CM", FirstName: "Theo", LastName: "Lindqvist"},
		{ID: "thunder-p07", TeamID: TeamIDThunderU12, JerseyNumber: "7", PrimaryPosition: "RM", FirstName: "Amara", LastName: "Diallo"},
		{ID: "thunder-p08", TeamID: TeamIDThunderU12, JerseyNumber: "9", PrimaryPosition: "ST", FirstName: "Marcus", LastName: "Reyes"},
		{ID: "thunder-p09", TeamID: TeamIDThunderU12, JerseyNumber: "10", PrimaryPosition: "ST", FirstName: "Elena", LastName: "Castellanos"},
		{ID: "thunder-p10", TeamID: TeamIDThunderU12, JerseyNumber: "11", PrimaryPosition: "CM", FirstName: "Kofi", LastName: "Asante"},
		{ID: "thunder-p11", TeamID: TeamIDThunderU12, JerseyNumber: "12", PrimaryPosition: "CB", FirstName: "Lukas", LastName: "Novak"},
		{ID: "comets-p01", TeamID: TeamIDCometsU10, JerseyNumber: "1", PrimaryPosition: "GK", FirstName: "Ava", LastName: "Sullivan"},
		{ID: "comets-p02", TeamID: TeamIDCometsU10, JerseyNumber: "3", PrimaryPosition: "CB", FirstName: "Mateo", LastName: "Ibarra"},
		{ID: "comets-p03", TeamID: TeamIDCometsU10, JerseyNumber: "4", PrimaryPosition: "CB", FirstName: "Zoe", LastName: "Tanaka"},
		{ID: "comets-p04", TeamID: TeamIDCometsU10, JerseyNumber: "6", PrimaryPosition: "LM", FirstName: "Finn", LastName: "Gallagher"},
		{ID: "comets-p05", TeamID: TeamIDCometsU10, JerseyNumber: "8", PrimaryPosition: "CM", FirstName: "Nia", LastName: "Abebe"},
		{ID: "comets-p06", TeamID: TeamIDCometsU10, JerseyNumber: "7", PrimaryPosition: "RM", FirstName: "Oscar", LastName: "Delgado"},
		{ID: "comets-p07", TeamID: TeamIDCometsU10, JerseyNumber: "9", PrimaryPosition: "ST", FirstName: "Lily", LastName: "Kowalski"},
		{ID: "comets-p08", TeamID: TeamIDCometsU10, JerseyNumber: "10", PrimaryPosition: "CM", FirstName: "Ezra", LastName: "Moreno"},
	}
}

// SeedRosterEntries pre-fields the Thunder starters in their 3-3-2 and
// leaves two substitutes on the bench.
func SeedRosterEntries() []roster.GameRosterEntry {
	return []roster.GameRosterEntry{
		{GameEventID: "thunder-ge-01", GameID: GameIDThunderSaturday, PlayerID: "thunder-p01", Position: "GK"},
		{GameEventID: "thunder-ge-02", GameID: GameIDThunderSaturday, PlayerID: "thunder-p02", Position: "LB"},
		{GameEventID: "thunder-ge-03", GameID: GameIDThunderSaturday, PlayerID: "thunder-p03", Position: "CB"},
		{GameEventID: "thunder-ge-04", GameID: GameIDThunderSaturday, PlayerID: "thunder-p04", Position: "RB"},
		{GameEventID: "thunder-ge-05", GameID: GameIDThunderSaturday, PlayerID: "thunder-p05", Position: "LM"},
		{GameEventID: "thunder-ge-06", GameID: GameIDThunderSaturday, PlayerID: "thunder-p06", Position: "CM"},
		{GameEventID: "thunder-ge-07", GameID: GameIDThunderSaturday, PlayerID: "thunder-p07", Position: "RM"},
		{GameEventID: "thunder-ge-08", GameID: GameIDThunderSaturday, PlayerID: "thunder-p08", Position: "ST"},
		{GameEventID: "thunder-ge-09", GameID: GameIDThunderSaturday, PlayerID: "thunder-p09", Position: "ST"},
		{GameEventID: "thunder-ge-10", GameID: GameIDThunderSaturday, PlayerID: "thunder-p10", Position: ""},
		{GameEventID: "thunder-ge-11", GameID: GameIDThunderSaturday, PlayerID: "thunder-p11", Position: ""},
	}
}
