package bazi

import "github.com/zapponejosh/bazi-api/internal/sexagenary"

// Weights contributed to the element tally.
const (
	StemWeight   = 3
	BranchWeight = 2
	HiddenWeight = 1
)

// Day-master strength thresholds, in percent of the total weight.
const (
	StrongThreshold = 35
	WeakThreshold   = 15
)

// Strength classifies how well the day master's element is represented.
type Strength string

const (
	Strong   Strength = "strong"
	Moderate Strength = "moderate"
	Weak     Strength = "weak"
)

// ElementShare is one element's weighted count and rounded percentage.
type ElementShare struct {
	Element sexagenary.Element `json:"element" yaml:"element"`
	Count   int                `json:"count" yaml:"count"`
	Percent int                `json:"percent" yaml:"percent"`
}

// Distribution is the weighted element tally of a chart. Shares are in
// generation order and their percentages always sum to exactly 100.
type Distribution struct {
	Shares    [sexagenary.ElementCount]ElementShare `json:"shares" yaml:"shares"`
	Total     int                                   `json:"total" yaml:"total"`
	DayMaster sexagenary.Element                    `json:"day_master" yaml:"day_master"`
	Strength  Strength                              `json:"strength" yaml:"strength"`
}

// Count returns the weighted count of e.
func (d Distribution) Count(e sexagenary.Element) int {
	return d.Shares[e].Count
}

// Percent returns the rounded percentage of e.
func (d Distribution) Percent(e sexagenary.Element) int {
	return d.Shares[e].Percent
}

// Elements tallies the chart: stems weigh 3, branches 2, hidden stems 1.
func Elements(c Chart) Distribution {
	var d Distribution
	for i, e := range sexagenary.Elements {
		d.Shares[i].Element = e
	}

	for _, p := range c.Pillars {
		d.Shares[p.Stem.Element].Count += StemWeight
		d.Shares[p.Branch.Element].Count += BranchWeight
		for _, h := range p.Branch.Hidden {
			d.Shares[h.Element].Count += HiddenWeight
		}
	}
	for _, s := range d.Shares {
		d.Total += s.Count
	}

	d.distributePercent()

	d.DayMaster = c.DayMaster().Element()
	d.Strength = classify(d.Percent(d.DayMaster))
	return d
}

// distributePercent rounds each share to the nearest percent and lets the
// largest share absorb whatever the rounding left over.
func (d *Distribution) distributePercent() {
	sum := 0
	largest := 0
	for i := range d.Shares {
		// Round half up in integer arithmetic.
		d.Shares[i].Percent = (d.Shares[i].Count*200 + d.Total) / (2 * d.Total)
		sum += d.Shares[i].Percent
		if d.Shares[i].Count > d.Shares[largest].Count {
			largest = i
		}
	}
	d.Shares[largest].Percent += 100 - sum
}

func classify(percent int) Strength {
	switch {
	case percent >= StrongThreshold:
		return Strong
	case percent <= WeakThreshold:
		return Weak
	default:
		return Moderate
	}
}
