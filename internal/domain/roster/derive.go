package roster

// OnField returns the entries currently assigned a position, in input order.
func OnField(entries []GameRosterEntry) []GameRosterEntry {
	out := make([]GameRosterEntry, 0, len(entries))
	for _, e := range entries {
		if e.OnField() {
			out = append(out, e)
		}
	}
	return out
}

// Bench returns the entries with no assigned position, in input order.
func Bench(entries []GameRosterEntry) []GameRosterEntry {
	out := make([]GameRosterEntry, 0, len(entries))
	for _, e := range entries {
		if !e.OnField() {
			out = append(out, e)
		}
	}
	return out
}

// Available returns team-roster players not yet present on the game roster
// by any means, field or bench.
func Available(teamRoster []Player, entries []GameRosterEntry) []Player {
	taken := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.PlayerID != "" {
			taken[e.PlayerID] = struct{}{}
		}
	}

	out := make([]Player, 0, len(teamRoster))
	for _, p := range teamRoster {
		if _, ok := taken[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// AtPosition returns the on-field entries whose position matches code, in
// input order. Duplicate codes are expected (two CBs etc).
func AtPosition(entries []GameRosterEntry, code string) []GameRosterEntry {
	out := make([]GameRosterEntry, 0, 2)
	for _, e := range entries {
		if e.Position == code {
			out = append(out, e)
		}
	}
	return out
}

// ByPosition groups on-field entries by position code, preserving input
// order within each group.
func ByPosition(entries []GameRosterEntry) map[string][]GameRosterEntry {
	out := make(map[string][]GameRosterEntry)
	for _, e := range entries {
		if e.OnField() {
			out[e.Position] = append(out[e.Position], e)
		}
	}
	return out
}
