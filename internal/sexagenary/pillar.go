package sexagenary

import (
	"fmt"
	"unicode/utf8"
)

// CycleLength is the number of pillars in the sexagenary cycle.
const CycleLength = 60

// Pillar is a stem paired with a branch of the same polarity. Only the sixty
// pairs of the cycle exist; build them with PillarAt, MustPillar or ParsePillar.
type Pillar struct {
	Stem   Stem   `json:"stem" yaml:"stem"`
	Branch Branch `json:"branch" yaml:"branch"`
}

// PillarAt returns the pillar at position i of the cycle, 甲子 being 0.
// i is reduced modulo 60.
func PillarAt(i int) Pillar {
	i = mod(i, CycleLength)
	return Pillar{Stem: Stem(i % StemCount), Branch: Branch(i % BranchCount)}
}

// MustPillar pairs a stem and a branch. Mixed-polarity pairs never occur in
// the cycle, so asking for one is a programming error and panics.
func MustPillar(s Stem, b Branch) Pillar {
	p := Pillar{Stem: s.mustValid(), Branch: b.mustValid()}
	if s.Polarity() != b.Polarity() {
		panic(fmt.Sprintf("sexagenary: %s%s is not a cycle pillar", s, b))
	}
	return p
}

// ParsePillar reads a two-symbol pillar such as "甲子". Unlike MustPillar it
// reports malformed input as an error, since the text comes from outside.
func ParsePillar(text string) (Pillar, error) {
	if utf8.RuneCountInString(text) != 2 {
		return Pillar{}, fmt.Errorf("parse pillar %q: want two symbols", text)
	}
	first, size := utf8.DecodeRuneInString(text)
	s, err := ParseStem(string(first))
	if err != nil {
		return Pillar{}, fmt.Errorf("parse pillar %q: %w", text, err)
	}
	b, err := ParseBranch(text[size:])
	if err != nil {
		return Pillar{}, fmt.Errorf("parse pillar %q: %w", text, err)
	}
	if s.Polarity() != b.Polarity() {
		return Pillar{}, fmt.Errorf("parse pillar %q: stem and branch polarity differ", text)
	}
	return Pillar{Stem: s, Branch: b}, nil
}

// Valid reports whether p is one of the sixty cycle pillars.
func (p Pillar) Valid() bool {
	return p.Stem.Valid() && p.Branch.Valid() && p.Stem.Polarity() == p.Branch.Polarity()
}

// Index returns the pillar's position in the cycle (0..59).
func (p Pillar) Index() int {
	// Chinese remainder over 10 and 12: 6 ≡ 1 (mod 5), -5 ≡ 1 (mod 6).
	return mod(6*int(p.Stem.mustValid())-5*int(p.Branch.mustValid()), CycleLength)
}

// Next returns the pillar n positions further along the cycle.
func (p Pillar) Next(n int) Pillar {
	return PillarAt(p.Index() + n)
}

func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// Void returns the two branches left unpaired in the pillar's decade (xun).
// Each run of ten pillars starting at a 甲 stem uses ten of the twelve
// branches; the two it skips are the decade's empty branches.
func (p Pillar) Void() [2]Branch {
	head := p.Index() - int(p.Stem)
	first := Branch(mod(head+StemCount, BranchCount))
	return [2]Branch{first, first.Next(1)}
}
