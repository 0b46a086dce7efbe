package sexagenary

// Interaction tables between stems and between branches. Pair tables are
// unordered: lookups normalise the pair so 子丑 and 丑子 hit the same entry.

type stemPair struct{ lo, hi Stem }

func newStemPair(a, b Stem) stemPair {
	if a > b {
		a, b = b, a
	}
	return stemPair{a, b}
}

type branchPair struct{ lo, hi Branch }

func newBranchPair(a, b Branch) branchPair {
	if a > b {
		a, b = b, a
	}
	return branchPair{a, b}
}

// stemCombinations: 甲己 earth, 乙庚 metal, 丙辛 water, 丁壬 wood, 戊癸 fire.
var stemCombinations = map[stemPair]Element{
	newStemPair(Jia, Ji):   Earth,
	newStemPair(Yi, Geng):  Metal,
	newStemPair(Bing, Xin): Water,
	newStemPair(Ding, Ren): Wood,
	newStemPair(Wu, Gui):   Fire,
}

// sixHarmonies pairs branches into six unions. 午未 resolves to earth.
var sixHarmonies = map[branchPair]Element{
	newBranchPair(Rat, Ox):         Earth,
	newBranchPair(Tiger, Pig):      Wood,
	newBranchPair(Rabbit, Dog):     Fire,
	newBranchPair(Dragon, Rooster): Metal,
	newBranchPair(Snake, Monkey):   Water,
	newBranchPair(Horse, Goat):     Earth,
}

// Bureau is a three-harmony triad. Members are listed growth, peak, tomb.
type Bureau struct {
	Members [3]Branch `json:"members" yaml:"members"`
	Element Element   `json:"element" yaml:"element"`
}

// Bureaus are the four three-harmony triads.
var Bureaus = [4]Bureau{
	{Members: [3]Branch{Monkey, Rat, Dragon}, Element: Water},
	{Members: [3]Branch{Pig, Rabbit, Goat}, Element: Wood},
	{Members: [3]Branch{Tiger, Horse, Dog}, Element: Fire},
	{Members: [3]Branch{Snake, Rooster, Ox}, Element: Metal},
}

// halfHarmonies holds every two-member subset of each bureau (twelve pairs).
var halfHarmonies = func() map[branchPair]Element {
	m := make(map[branchPair]Element, 12)
	for _, b := range Bureaus {
		m[newBranchPair(b.Members[0], b.Members[1])] = b.Element
		m[newBranchPair(b.Members[1], b.Members[2])] = b.Element
		m[newBranchPair(b.Members[0], b.Members[2])] = b.Element
	}
	return m
}()

var clashes = map[branchPair]bool{
	newBranchPair(Rat, Horse):      true,
	newBranchPair(Ox, Goat):        true,
	newBranchPair(Tiger, Monkey):   true,
	newBranchPair(Rabbit, Rooster): true,
	newBranchPair(Dragon, Dog):     true,
	newBranchPair(Snake, Pig):      true,
}

// punishments includes the self-punishing branches 辰, 午 and 酉, which only
// punish a second copy of themselves.
var punishments = map[branchPair]bool{
	newBranchPair(Tiger, Snake):     true,
	newBranchPair(Snake, Monkey):    true,
	newBranchPair(Tiger, Monkey):    true,
	newBranchPair(Ox, Dog):          true,
	newBranchPair(Dog, Goat):        true,
	newBranchPair(Ox, Goat):         true,
	newBranchPair(Rat, Rabbit):      true,
	newBranchPair(Dragon, Dragon):   true,
	newBranchPair(Horse, Horse):     true,
	newBranchPair(Rooster, Rooster): true,
}

var destructions = map[branchPair]bool{
	newBranchPair(Rat, Rooster):  true,
	newBranchPair(Rabbit, Horse): true,
	newBranchPair(Dragon, Ox):    true,
	newBranchPair(Goat, Dog):     true,
	newBranchPair(Tiger, Pig):    true,
	newBranchPair(Snake, Monkey): true,
}

var harms = map[branchPair]bool{
	newBranchPair(Rat, Goat):      true,
	newBranchPair(Ox, Horse):      true,
	newBranchPair(Tiger, Snake):   true,
	newBranchPair(Rabbit, Dragon): true,
	newBranchPair(Monkey, Pig):    true,
	newBranchPair(Rooster, Dog):   true,
}

// StemCombination reports whether two stems combine and into which element.
func StemCombination(a, b Stem) (Element, bool) {
	e, ok := stemCombinations[newStemPair(a, b)]
	return e, ok
}

// SixHarmony reports whether two branches form a six-harmony union.
func SixHarmony(a, b Branch) (Element, bool) {
	e, ok := sixHarmonies[newBranchPair(a, b)]
	return e, ok
}

// HalfHarmony reports whether two branches form a partial three-harmony.
func HalfHarmony(a, b Branch) (Element, bool) {
	e, ok := halfHarmonies[newBranchPair(a, b)]
	return e, ok
}

// Clashes reports whether two branches sit opposite each other.
func Clashes(a, b Branch) bool { return clashes[newBranchPair(a, b)] }

// Punishes reports whether two branches punish each other.
func Punishes(a, b Branch) bool { return punishments[newBranchPair(a, b)] }

// Destroys reports whether two branches destroy each other.
func Destroys(a, b Branch) bool { return destructions[newBranchPair(a, b)] }

// Harms reports whether two branches harm each other.
func Harms(a, b Branch) bool { return harms[newBranchPair(a, b)] }

// ThreeHarmony reports whether three branches, in any order, complete a bureau.
func ThreeHarmony(a, b, c Branch) (Bureau, bool) {
	for _, bureau := range Bureaus {
		if sameSet(bureau.Members, [3]Branch{a, b, c}) {
			return bureau, true
		}
	}
	return Bureau{}, false
}

func sameSet(want, got [3]Branch) bool {
	var seen [3]bool
	for _, g := range got {
		matched := false
		for i, w := range want {
			if !seen[i] && w == g {
				seen[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
