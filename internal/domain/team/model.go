package team

import "fmt"

// Team is one club team in the league.
type Team struct {
	ID         string
	Name       string
	AgeGroup   string
	TeamSize   int // players per side for this age group, e.g. 7, 9, 11
	HomeColors string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.TeamSize <= 0 {
		return fmt.Errorf("team size must be positive")
	}

	return nil
}
