package sexagenary

import "fmt"

// Branch is one of the twelve earthly branches, 子 (0) through 亥 (11). The
// constants carry the zodiac animal names.
type Branch int

const (
	Rat Branch = iota
	Ox
	Tiger
	Rabbit
	Dragon
	Snake
	Horse
	Goat
	Monkey
	Rooster
	Dog
	Pig
)

// BranchCount is the length of the branch cycle.
const BranchCount = 12

var branchSymbols = [BranchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// Branches lists all branches in cycle order.
var Branches = [BranchCount]Branch{Rat, Ox, Tiger, Rabbit, Dragon, Snake, Horse, Goat, Monkey, Rooster, Dog, Pig}

var branchElements = [BranchCount]Element{
	Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water,
}

// Rank orders a branch's hidden stems by dominance.
type Rank int

const (
	Primary Rank = iota
	Secondary
	Residual
)

func (r Rank) String() string {
	switch r {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Residual:
		return "residual"
	default:
		panic(fmt.Sprintf("sexagenary: rank %d out of range", int(r)))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Rank) MarshalText() ([]byte, error) {
	if r < Primary || r > Residual {
		return nil, fmt.Errorf("marshal rank: invalid value %d", int(r))
	}
	return []byte(r.String()), nil
}

// HiddenStem is a stem concealed inside a branch.
type HiddenStem struct {
	Stem Stem `json:"stem" yaml:"stem"`
	Rank Rank `json:"rank" yaml:"rank"`
}

// hiddenStems is indexed by branch; entries are in rank order.
var hiddenStems = [BranchCount][]Stem{
	Rat:     {Gui},
	Ox:      {Ji, Gui, Xin},
	Tiger:   {Jia, Bing, Wu},
	Rabbit:  {Yi},
	Dragon:  {Wu, Yi, Gui},
	Snake:   {Bing, Geng, Wu},
	Horse:   {Ding, Ji},
	Goat:    {Ji, Ding, Yi},
	Monkey:  {Geng, Ren, Wu},
	Rooster: {Xin},
	Dog:     {Wu, Xin, Ding},
	Pig:     {Ren, Jia},
}

// Valid reports whether b is one of the twelve branches.
func (b Branch) Valid() bool {
	return b >= Rat && b <= Pig
}

func (b Branch) String() string {
	return branchSymbols[b.mustValid()]
}

// Element returns the branch's own element.
func (b Branch) Element() Element {
	return branchElements[b.mustValid()]
}

// Polarity returns yang for 子寅辰午申戌 and yin for the others.
func (b Branch) Polarity() Polarity {
	return polarityOf(int(b.mustValid()))
}

// Hidden returns the branch's hidden stems in rank order. The returned slice
// is a fresh copy.
func (b Branch) Hidden() []HiddenStem {
	stems := hiddenStems[b.mustValid()]
	out := make([]HiddenStem, len(stems))
	for i, s := range stems {
		out[i] = HiddenStem{Stem: s, Rank: Rank(i)}
	}
	return out
}

// HiddenCount returns how many stems the branch conceals (1 to 3).
func (b Branch) HiddenCount() int {
	return len(hiddenStems[b.mustValid()])
}

// Next returns the branch n steps further along the cycle; n may be negative.
func (b Branch) Next(n int) Branch {
	return Branch(mod(int(b.mustValid())+n, BranchCount))
}

// MarshalText implements encoding.TextMarshaler.
func (b Branch) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("marshal branch: invalid value %d", int(b))
	}
	return []byte(branchSymbols[b]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Branch) UnmarshalText(text []byte) error {
	parsed, err := ParseBranch(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBranch resolves a branch symbol.
func ParseBranch(symbol string) (Branch, error) {
	for i, sym := range branchSymbols {
		if sym == symbol {
			return Branch(i), nil
		}
	}
	return 0, fmt.Errorf("unknown branch %q", symbol)
}

func (b Branch) mustValid() Branch {
	if !b.Valid() {
		panic(fmt.Sprintf("sexagenary: branch %d out of range", int(b)))
	}
	return b
}
