package bazi

import "github.com/zapponejosh/bazi-api/internal/sexagenary"

// PillarNayin is the nayin of one chart pillar.
type PillarNayin struct {
	Position Position `json:"position" yaml:"position"`
	sexagenary.Nayin `yaml:",inline"`
}

// NayinView looks up the nayin of each pillar.
func NayinView(c Chart) [4]PillarNayin {
	var out [4]PillarNayin
	for i, p := range c.Pillars {
		out[i] = PillarNayin{Position: p.Position, Nayin: sexagenary.NayinOf(p.Pillar)}
	}
	return out
}

// Void describes the day pillar's empty branches and which chart pillars
// sit on them.
type Void struct {
	Branches  [2]sexagenary.Branch `json:"branches" yaml:"branches"`
	Positions []Position           `json:"positions" yaml:"positions"`
}

// VoidView computes the empty branches of the day pillar's decade.
func VoidView(c Chart) Void {
	v := Void{
		Branches:  c.Pillars[DayPillar].Pillar.Void(),
		Positions: []Position{},
	}
	for _, p := range c.Pillars {
		b := p.Branch.Branch
		if b == v.Branches[0] || b == v.Branches[1] {
			v.Positions = append(v.Positions, p.Position)
		}
	}
	return v
}
