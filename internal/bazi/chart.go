// Package bazi builds a Four Pillars chart from resolved pillars and derives
// its ten-god, nayin, relationship and element views. Everything here is a
// pure function of its inputs.
package bazi

import (
	"fmt"
	"time"

	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

// Position identifies one of the four pillars.
type Position int

const (
	YearPillar Position = iota
	MonthPillar
	DayPillar
	HourPillar
)

// Positions lists the pillars in chart order.
var Positions = [4]Position{YearPillar, MonthPillar, DayPillar, HourPillar}

var positionNames = [4]string{"year", "month", "day", "hour"}

func (p Position) String() string {
	if p < YearPillar || p > HourPillar {
		panic(fmt.Sprintf("bazi: position %d out of range", int(p)))
	}
	return positionNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	if p < YearPillar || p > HourPillar {
		return nil, fmt.Errorf("marshal position: invalid value %d", int(p))
	}
	return []byte(positionNames[p]), nil
}

// StemInfo is a visible stem with its attributes.
type StemInfo struct {
	Stem     sexagenary.Stem     `json:"symbol" yaml:"symbol"`
	Element  sexagenary.Element  `json:"element" yaml:"element"`
	Polarity sexagenary.Polarity `json:"polarity" yaml:"polarity"`
}

// HiddenStemInfo is a stem concealed in a branch.
type HiddenStemInfo struct {
	Stem     sexagenary.Stem     `json:"symbol" yaml:"symbol"`
	Rank     sexagenary.Rank     `json:"rank" yaml:"rank"`
	Element  sexagenary.Element  `json:"element" yaml:"element"`
	Polarity sexagenary.Polarity `json:"polarity" yaml:"polarity"`
}

// BranchInfo is a branch with its attributes and hidden stems.
type BranchInfo struct {
	Branch   sexagenary.Branch   `json:"symbol" yaml:"symbol"`
	Element  sexagenary.Element  `json:"element" yaml:"element"`
	Polarity sexagenary.Polarity `json:"polarity" yaml:"polarity"`
	Hidden   []HiddenStemInfo    `json:"hidden" yaml:"hidden"`
}

// Pillar is a chart pillar with its lookups attached.
type Pillar struct {
	Position Position          `json:"position" yaml:"position"`
	Name     string            `json:"name" yaml:"name"`
	Pillar   sexagenary.Pillar `json:"-" yaml:"-"`
	Stem     StemInfo          `json:"stem" yaml:"stem"`
	Branch   BranchInfo        `json:"branch" yaml:"branch"`
}

// Chart is the Four Pillars chart of one birth. It is built once per
// request and treated as an immutable value.
type Chart struct {
	Birth   time.Time       `json:"birth" yaml:"birth"`
	HasTime bool            `json:"has_time" yaml:"has_time"`
	Gender  calendar.Gender `json:"gender,omitempty" yaml:"gender,omitempty"`
	Pillars [4]Pillar       `json:"pillars" yaml:"pillars"`

	// Source records which calendar method produced the pillars. It is kept
	// out of serialised output: fallback use is not shown to end users.
	Source calendar.Source `json:"-" yaml:"-"`
}

// Enrich attaches element, polarity and hidden stems to raw pillars.
func Enrich(birth calendar.Birth, pillars calendar.Pillars, source calendar.Source) Chart {
	c := Chart{
		Birth:   birth.Time,
		HasTime: birth.HasTime,
		Gender:  birth.Gender,
		Source:  source,
	}
	for i, p := range pillars.Array() {
		c.Pillars[i] = EnrichPillar(Positions[i], p)
	}
	return c
}

// EnrichPillar looks up the attributes of a single pillar.
func EnrichPillar(pos Position, p sexagenary.Pillar) Pillar {
	if !p.Valid() {
		panic(fmt.Sprintf("bazi: %s pillar {%d %d} is not a cycle pillar", pos, int(p.Stem), int(p.Branch)))
	}

	hidden := p.Branch.Hidden()
	infos := make([]HiddenStemInfo, len(hidden))
	for i, h := range hidden {
		infos[i] = HiddenStemInfo{
			Stem:     h.Stem,
			Rank:     h.Rank,
			Element:  h.Stem.Element(),
			Polarity: h.Stem.Polarity(),
		}
	}

	return Pillar{
		Position: pos,
		Name:     p.String(),
		Pillar:   p,
		Stem: StemInfo{
			Stem:     p.Stem,
			Element:  p.Stem.Element(),
			Polarity: p.Stem.Polarity(),
		},
		Branch: BranchInfo{
			Branch:   p.Branch,
			Element:  p.Branch.Element(),
			Polarity: p.Branch.Polarity(),
			Hidden:   infos,
		},
	}
}

// DayMaster is the day pillar's stem, the reference for every ten-god.
func (c Chart) DayMaster() sexagenary.Stem {
	return c.Pillars[DayPillar].Stem.Stem
}

// Stems returns the four visible stems in chart order.
func (c Chart) Stems() [4]sexagenary.Stem {
	var out [4]sexagenary.Stem
	for i, p := range c.Pillars {
		out[i] = p.Stem.Stem
	}
	return out
}

// Branches returns the four branches in chart order.
func (c Chart) Branches() [4]sexagenary.Branch {
	var out [4]sexagenary.Branch
	for i, p := range c.Pillars {
		out[i] = p.Branch.Branch
	}
	return out
}
