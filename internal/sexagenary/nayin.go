package sexagenary

import "fmt"

// Nayin is the sound-element name shared by two consecutive cycle pillars.
type Nayin struct {
	Name    string  `json:"name" yaml:"name"`
	Element Element `json:"element" yaml:"element"`
}

// nayinNames holds one entry per pillar pair: index i covers cycle
// positions 2i and 2i+1.
var nayinNames = [CycleLength / 2]Nayin{
	{"海中金", Metal}, {"爐中火", Fire}, {"大林木", Wood}, {"路旁土", Earth}, {"劍鋒金", Metal},
	{"山頭火", Fire}, {"澗下水", Water}, {"城頭土", Earth}, {"白蠟金", Metal}, {"楊柳木", Wood},
	{"泉中水", Water}, {"屋上土", Earth}, {"霹靂火", Fire}, {"松柏木", Wood}, {"長流水", Water},
	{"沙中金", Metal}, {"山下火", Fire}, {"平地木", Wood}, {"壁上土", Earth}, {"金箔金", Metal},
	{"覆燈火", Fire}, {"天河水", Water}, {"大驛土", Earth}, {"釵釧金", Metal}, {"桑柘木", Wood},
	{"大溪水", Water}, {"沙中土", Earth}, {"天上火", Fire}, {"石榴木", Wood}, {"大海水", Water},
}

// NayinOf returns the nayin of a cycle pillar. A pillar outside the cycle
// means a table or construction bug and panics.
func NayinOf(p Pillar) Nayin {
	if !p.Valid() {
		panic(fmt.Sprintf("sexagenary: no nayin for invalid pillar {%d %d}", int(p.Stem), int(p.Branch)))
	}
	return nayinNames[p.Index()/2]
}
