// Package sexagenary holds the fixed symbol tables of the Chinese sexagenary
// calendar: the ten heavenly stems, the twelve earthly branches, the five
// elements, hidden stems, nayin names and the interaction tables between them.
//
// Every table is a package-level value initialised once and never mutated, so
// all lookups are safe for concurrent use.
package sexagenary

import "fmt"

// Element is one of the five phases, ordered along the generation cycle
// Wood → Fire → Earth → Metal → Water → Wood.
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// ElementCount is the number of elements in the generation cycle.
const ElementCount = 5

// Elements lists the elements in generation-cycle order.
var Elements = [ElementCount]Element{Wood, Fire, Earth, Metal, Water}

var elementNames = [ElementCount]string{"wood", "fire", "earth", "metal", "water"}

var elementSymbols = [ElementCount]string{"木", "火", "土", "金", "水"}

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool {
	return e >= Wood && e <= Water
}

func (e Element) String() string {
	return elementNames[e.mustValid()]
}

// Symbol returns the single-character form (木, 火, …).
func (e Element) Symbol() string {
	return elementSymbols[e.mustValid()]
}

// Generates returns the element e produces in the generation cycle.
func (e Element) Generates() Element {
	return Element((int(e.mustValid()) + 1) % ElementCount)
}

// Controls returns the element e overcomes in the domination cycle.
func (e Element) Controls() Element {
	return Element((int(e.mustValid()) + 2) % ElementCount)
}

// MarshalText implements encoding.TextMarshaler.
func (e Element) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("marshal element: invalid value %d", int(e))
	}
	return []byte(elementNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Element) UnmarshalText(text []byte) error {
	parsed, err := ParseElement(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseElement accepts either the English name or the symbol.
func ParseElement(s string) (Element, error) {
	for i := range elementNames {
		if s == elementNames[i] || s == elementSymbols[i] {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element %q", s)
}

func (e Element) mustValid() Element {
	if !e.Valid() {
		panic(fmt.Sprintf("sexagenary: element %d out of range", int(e)))
	}
	return e
}

// Polarity is the yin/yang attribute of a stem or branch.
type Polarity int

const (
	Yang Polarity = iota
	Yin
)

func (p Polarity) String() string {
	switch p {
	case Yang:
		return "yang"
	case Yin:
		return "yin"
	default:
		panic(fmt.Sprintf("sexagenary: polarity %d out of range", int(p)))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Polarity) MarshalText() ([]byte, error) {
	if p != Yang && p != Yin {
		return nil, fmt.Errorf("marshal polarity: invalid value %d", int(p))
	}
	return []byte(p.String()), nil
}

// polarityOf derives polarity from a cycle position: even positions are yang.
func polarityOf(i int) Polarity {
	if i%2 == 0 {
		return Yang
	}
	return Yin
}
