package sexagenary

import "fmt"

// Stem is one of the ten heavenly stems, 甲 (0) through 癸 (9).
type Stem int

const (
	Jia Stem = iota
	Yi
	Bing
	Ding
	Wu
	Ji
	Geng
	Xin
	Ren
	Gui
)

// StemCount is the length of the stem cycle.
const StemCount = 10

var stemSymbols = [StemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// Stems lists all stems in cycle order.
var Stems = [StemCount]Stem{Jia, Yi, Bing, Ding, Wu, Ji, Geng, Xin, Ren, Gui}

// Valid reports whether s is one of the ten stems.
func (s Stem) Valid() bool {
	return s >= Jia && s <= Gui
}

func (s Stem) String() string {
	return stemSymbols[s.mustValid()]
}

// Element returns the stem's element. Stems pair up per element:
// 甲乙 wood, 丙丁 fire, 戊己 earth, 庚辛 metal, 壬癸 water.
func (s Stem) Element() Element {
	return Element(int(s.mustValid()) / 2)
}

// Polarity returns yang for 甲丙戊庚壬 and yin for the others.
func (s Stem) Polarity() Polarity {
	return polarityOf(int(s.mustValid()))
}

// Next returns the stem n steps further along the cycle; n may be negative.
func (s Stem) Next(n int) Stem {
	return Stem(mod(int(s.mustValid())+n, StemCount))
}

// MarshalText implements encoding.TextMarshaler.
func (s Stem) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal stem: invalid value %d", int(s))
	}
	return []byte(stemSymbols[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stem) UnmarshalText(text []byte) error {
	parsed, err := ParseStem(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStem resolves a stem symbol.
func ParseStem(symbol string) (Stem, error) {
	for i, sym := range stemSymbols {
		if sym == symbol {
			return Stem(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stem %q", symbol)
}

func (s Stem) mustValid() Stem {
	if !s.Valid() {
		panic(fmt.Sprintf("sexagenary: stem %d out of range", int(s)))
	}
	return s
}

// mod is a floor modulo that stays non-negative for negative a.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
