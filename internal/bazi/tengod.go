package bazi

import (
	"fmt"

	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

// TenGod is the relationship of a stem to the day master. The values are
// laid out so that TenGod = 2*distance + polarity mismatch, where distance is
// the number of generation steps from the day master's element to the stem's.
type TenGod int

const (
	Companion        TenGod = iota // 比肩: same element, same polarity
	RobWealth                      // 劫財: same element, other polarity
	EatingGod                      // 食神: day master generates, same polarity
	HurtingOfficer                 // 傷官: day master generates, other polarity
	IndirectWealth                 // 偏財: day master controls, same polarity
	DirectWealth                   // 正財: day master controls, other polarity
	SevenKillings                  // 七殺: controls day master, same polarity
	DirectOfficer                  // 正官: controls day master, other polarity
	IndirectResource               // 偏印: generates day master, same polarity
	DirectResource                 // 正印: generates day master, other polarity
)

// TenGodCount is the number of categories.
const TenGodCount = 10

var tenGodNames = [TenGodCount]string{"比肩", "劫財", "食神", "傷官", "偏財", "正財", "七殺", "正官", "偏印", "正印"}

// Valid reports whether g is one of the ten categories.
func (g TenGod) Valid() bool {
	return g >= Companion && g <= DirectResource
}

func (g TenGod) String() string {
	if !g.Valid() {
		panic(fmt.Sprintf("bazi: ten god %d out of range", int(g)))
	}
	return tenGodNames[g]
}

// MarshalText implements encoding.TextMarshaler.
func (g TenGod) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("marshal ten god: invalid value %d", int(g))
	}
	return []byte(tenGodNames[g]), nil
}

// TenGodOf classifies stem against the day master.
func TenGodOf(stem, dayMaster sexagenary.Stem) TenGod {
	distance := (int(stem.Element()) - int(dayMaster.Element()) + sexagenary.ElementCount) % sexagenary.ElementCount
	g := TenGod(distance * 2)
	if stem.Polarity() != dayMaster.Polarity() {
		g++
	}
	return g
}

// PillarTenGods holds the ten-gods of one pillar's visible and hidden stems.
type PillarTenGods struct {
	Position Position `json:"position" yaml:"position"`
	Stem     TenGod   `json:"stem" yaml:"stem"`
	Hidden   []TenGod `json:"hidden" yaml:"hidden"`
}

// TenGods resolves every visible and hidden stem of the chart against its
// day master. The day stem itself resolves to 比肩.
func TenGods(c Chart) [4]PillarTenGods {
	dm := c.DayMaster()
	var out [4]PillarTenGods
	for i, p := range c.Pillars {
		hidden := make([]TenGod, len(p.Branch.Hidden))
		for j, h := range p.Branch.Hidden {
			hidden[j] = TenGodOf(h.Stem, dm)
		}
		out[i] = PillarTenGods{
			Position: p.Position,
			Stem:     TenGodOf(p.Stem.Stem, dm),
			Hidden:   hidden,
		}
	}
	return out
}
