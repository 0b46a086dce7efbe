package bazi

import (
	"fmt"

	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

// Kind is the category of a stem or branch interaction.
type Kind string

const (
	StemCombination Kind = "stem_combination"
	SixHarmony      Kind = "six_harmony"
	HalfHarmony     Kind = "half_harmony"
	ThreeHarmony    Kind = "three_harmony"
	Clash           Kind = "clash"
	Punishment      Kind = "punishment"
	Destruction     Kind = "destruction"
	Harm            Kind = "harm"
)

// Finding is one detected interaction between two or three pillars.
type Finding struct {
	Kind      Kind                `json:"kind" yaml:"kind"`
	Positions []Position          `json:"positions" yaml:"positions"`
	Stems     []sexagenary.Stem   `json:"stems,omitempty" yaml:"stems,omitempty"`
	Branches  []sexagenary.Branch `json:"branches,omitempty" yaml:"branches,omitempty"`

	// Result is the element a combination or harmony transforms into.
	Result *sexagenary.Element `json:"result,omitempty" yaml:"result,omitempty"`

	// Adjacent is set when the positions are consecutive pillars. For stem
	// combinations a non-adjacent pair is a hidden combination.
	Adjacent bool `json:"adjacent" yaml:"adjacent"`
}

func (f Finding) String() string {
	s := fmt.Sprintf("%s%v", f.Kind, f.Positions)
	if f.Result != nil {
		s += "→" + f.Result.String()
	}
	return s
}

// pairs and triples enumerate position combinations in pillar order.
var (
	pairs = [6][2]Position{
		{YearPillar, MonthPillar}, {YearPillar, DayPillar}, {YearPillar, HourPillar},
		{MonthPillar, DayPillar}, {MonthPillar, HourPillar}, {DayPillar, HourPillar},
	}
	triples = [4][3]Position{
		{YearPillar, MonthPillar, DayPillar}, {YearPillar, MonthPillar, HourPillar},
		{YearPillar, DayPillar, HourPillar}, {MonthPillar, DayPillar, HourPillar},
	}
)

// branchRule is one entry of the pairwise precedence list.
type branchRule struct {
	kind  Kind
	match func(a, b sexagenary.Branch) (sexagenary.Element, bool, bool)
}

func transforming(f func(a, b sexagenary.Branch) (sexagenary.Element, bool)) func(a, b sexagenary.Branch) (sexagenary.Element, bool, bool) {
	return func(a, b sexagenary.Branch) (sexagenary.Element, bool, bool) {
		e, ok := f(a, b)
		return e, true, ok
	}
}

func plain(f func(a, b sexagenary.Branch) bool) func(a, b sexagenary.Branch) (sexagenary.Element, bool, bool) {
	return func(a, b sexagenary.Branch) (sexagenary.Element, bool, bool) {
		return 0, false, f(a, b)
	}
}

// branchPrecedence is checked top to bottom; a pair is reported only under
// the first rule it matches.
var branchPrecedence = []branchRule{
	{SixHarmony, transforming(sexagenary.SixHarmony)},
	{HalfHarmony, transforming(sexagenary.HalfHarmony)},
	{Clash, plain(sexagenary.Clashes)},
	{Punishment, plain(sexagenary.Punishes)},
	{Destruction, plain(sexagenary.Destroys)},
	{Harm, plain(sexagenary.Harms)},
}

// Relationships scans all stem pairs, branch pairs and branch triples of
// the chart. The order is stable: stem combinations, then branch pairs, then
// three-harmonies, each in pillar order.
func Relationships(c Chart) []Finding {
	stems := c.Stems()
	branches := c.Branches()
	findings := make([]Finding, 0, 8)

	for _, pr := range pairs {
		a, b := stems[pr[0]], stems[pr[1]]
		if e, ok := sexagenary.StemCombination(a, b); ok {
			findings = append(findings, Finding{
				Kind:      StemCombination,
				Positions: []Position{pr[0], pr[1]},
				Stems:     []sexagenary.Stem{a, b},
				Result:    &e,
				Adjacent:  consecutive(pr[:]),
			})
		}
	}

	for _, pr := range pairs {
		if f, ok := branchPair(pr, branches); ok {
			findings = append(findings, f)
		}
	}

	for _, tr := range triples {
		a, b, d := branches[tr[0]], branches[tr[1]], branches[tr[2]]
		if bureau, ok := sexagenary.ThreeHarmony(a, b, d); ok {
			e := bureau.Element
			findings = append(findings, Finding{
				Kind:      ThreeHarmony,
				Positions: []Position{tr[0], tr[1], tr[2]},
				Branches:  []sexagenary.Branch{a, b, d},
				Result:    &e,
				Adjacent:  consecutive(tr[:]),
			})
		}
	}

	return findings
}

func branchPair(pr [2]Position, branches [4]sexagenary.Branch) (Finding, bool) {
	a, b := branches[pr[0]], branches[pr[1]]
	for _, rule := range branchPrecedence {
		e, transforms, ok := rule.match(a, b)
		if !ok {
			continue
		}
		f := Finding{
			Kind:      rule.kind,
			Positions: []Position{pr[0], pr[1]},
			Branches:  []sexagenary.Branch{a, b},
			Adjacent:  consecutive(pr[:]),
		}
		if transforms {
			f.Result = &e
		}
		return f, true
	}
	return Finding{}, false
}

func consecutive(ps []Position) bool {
	for i := 1; i < len(ps); i++ {
		if ps[i] != ps[i-1]+1 {
			return false
		}
	}
	return true
}
