package formation

import "sort"

// Catalog is the static formation library. Lookup only, no mutation.
type Catalog struct {
	byCode map[string]Formation
}

func NewCatalog(formations []Formation) *Catalog {
	byCode := make(map[string]Formation, len(formations))
	for _, f := range formations {
		byCode[f.Code] = f
	}
	return &Catalog{byCode: byCode}
}

// DefaultCatalog returns the built-in formations used by youth leagues:
// 7v7, 9v9 and 11v11 team sizes.
func DefaultCatalog() *Catalog {
	return NewCatalog(builtinFormations)
}

func (c *Catalog) Get(code string) (Formation, bool) {
	f, ok := c.byCode[code]
	return f, ok
}

// ListBySize returns formations for the given team size, sorted by code.
func (c *Catalog) ListBySize(playersPerTeam int) []Formation {
	out := make([]Formation, 0, len(c.byCode))
	for _, f := range c.byCode {
		if f.PlayersPerTeam == playersPerTeam {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// List returns every formation in the catalog, sorted by team size then code.
func (c *Catalog) List() []Formation {
	out := make([]Formation, 0, len(c.byCode))
	for _, f := range c.byCode {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayersPerTeam != out[j].PlayersPerTeam {
			return out[i].PlayersPerTeam < out[j].PlayersPerTeam
		}
		return out[i].Code < out[j].Code
	})
	return out
}

var builtinFormations = []Formation{
	{
		Code:           "4-4-2",
		Name:           "4-4-2",
		PlayersPerTeam: 11,
		Slots: []Slot{
			{Code: "GK", X: 0.50, Y: 0.95},
			{Code: "LB", X: 0.15, Y: 0.75},
			{Code: "CB", X: 0.38, Y: 0.78},
			{Code: "CB", X: 0.62, Y: 0.78},
			{Code: "RB", X: 0.85, Y: 0.75},
			{Code: "LM", X: 0.15, Y: 0.48},
			{Code: "CM", X: 0.38, Y: 0.52},
			{Code: "CM", X: 0.62, Y: 0.52},
			{Code: "RM", X: 0.85, Y: 0.48},
			{Code: "ST", X: 0.38, Y: 0.22},
			{Code: "ST", X: 0.62, Y: 0.22},
		},
	},
	{
		Code:           "4-3-3",
		Name:           "4-3-3",
		PlayersPerTeam: 11,
		Slots: []Slot{
			{Code: "GK", X: 0.50, Y: 0.95},
			{Code: "LB", X: 0.15, Y: 0.75},
			{Code: "CB", X: 0.38, Y: 0.78},
			{Code: "CB", X: 0.62, Y: 0.78},
			{Code: "RB", X: 0.85, Y: 0.75},
			{Code: "CM", X: 0.30, Y: 0.52},
			{Code: "CM", X: 0.50, Y: 0.58},
			{Code: "CM", X: 0.70, Y: 0.52},
			{Code: "LW", X: 0.18, Y: 0.25},
			{Code: "ST", X: 0.50, Y: 0.18},
			{Code: "RW", X: 0.82, Y: 0.25},
		},
	},
	{
		Code:           "3-5-2",
		Name:           "3-5-2",
		PlayersPerTeam: 11,
		Slots: []Slot{
			{Code: "GK", X: 0.50, Y: 0.95},
			{Code: "CB", X: 0.28, Y: 0.78},
			{Code: "CB", X: 0.50, Y: 0.80},
			{Code: "CB", X: 0.72, Y: 0.78},
			{Code: "LM", X: 0.12, Y: 0.50},
			{Code: "CM", X: 0.35, Y: 0.52},
			{Code: "CM", X: 0.50, Y: 0.58},
			{Code: "CM", X: 0.65, Y: 0.52},
			{Code: "RM", X: 0.88, Y: 0.50},
			{Code: "ST", X: 0.40, Y: 0.22},
			{Code: "ST", X: 0.60, Y: 0.22},
		},
	},
	{
		Code:           "3-3-2",
		Name:           "3-3-2",
		PlayersPerTeam: 9,
		Slots: []Slot{
			{Code: "GK", X: 0.50, Y: 0.95},
			{Code: "LB", X: 0.22, Y: 0.75},
			{Code: "CB", X: 0.50, Y: 0.78},
			{Code: "RB", X: 0.78, Y: 0.75},
			{Code: "LM", X: 0.22, Y: 0.48},
			{Code: "CM", X: 0.50, Y: 0.52},
			{Code: "RM", X: 0.78, Y: 0.48},
			{Code: "ST", X: 0.40, Y: 0.22},
			{Code: "ST", X: 0.60, Y: 0.22},
		},
	},
	{
		Code:           "3-2-3",
		Name:           "3-2-3",
		PlayersPerTeam: 9,
		Slots: []Slot{
			{Code: "GK", X: 0.50, Y: 0.95},
			{Code: "LB", X: 0.22, Y: 0.75},
			{Code: "CB", X: 0.50, Y: 0.78},
			{Code: "RB", X: 0.78, Y: 0.75},
			{Code: "CM", X: 0.38, Y: 0.50},
			{Code: "CM", X: 0.62, Y: 0.50},
			{Code: "LW", X: 0.22, Y: 0.25},
			{Code: "ST", X: 0.50, Y: 0.18},
			{Code: "RW", X: 0.78, Y: 0.25},
		},
	},
	{
		Code:           "2-3-1",
		Name:           "2-3-1",
		PlayersPerTeam: 7,
		Slots: []Slot{
			{Code: "GK", X: 0.50, Y: 0.95},
			{Code: "CB", X: 0.35, Y: 0.75},
			{Code: "CB", X: 0.65, Y: 0.75},
			{Code: "LM", X: 0.22, Y: 0.48},
			{Code: "CM", X: 0.50, Y: 0.52},
			{Code: "RM", X: 0.78, Y: 0.48},
			{Code: "ST", X: 0.50, Y: 0.20},
		},
	},
	{
		Code:           "3-2-1",
		Name:           "3-2-1",
		PlayersPerTeam: 7,
		Slots: []Slot{
			{Code: "GK", X: 0.50, Y: 0.95},
			{Code: "LB", X: 0.22, Y: 0.75},
			{Code: "CB", X: 0.50, Y: 0.78},
			{Code: "RB", X: 0.78, Y: 0.75},
			{Code: "CM", X: 0.38, Y: 0.48},
			{Code: "CM", X: 0.62, Y: 0.48},
			{Code: "ST", X: 0.50, Y: 0.20},
		},
	},
}
