// Package calendar converts civil birth moments into the four sexagenary
// pillars. A precise lunisolar backend is preferred; a closed-form
// approximation stands in whenever the backend is absent or fails.
package calendar

import (
	"context"
	"time"

	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

// Source names the method that produced a set of pillars.
type Source string

const (
	SourcePrecise    Source = "precise"
	SourceArithmetic Source = "arithmetic"
)

// Pillars are the year, month, day and hour pillars of one birth.
type Pillars struct {
	Year  sexagenary.Pillar `json:"year" yaml:"year"`
	Month sexagenary.Pillar `json:"month" yaml:"month"`
	Day   sexagenary.Pillar `json:"day" yaml:"day"`
	Hour  sexagenary.Pillar `json:"hour" yaml:"hour"`
}

// Array returns the pillars in year, month, day, hour order.
func (p Pillars) Array() [4]sexagenary.Pillar {
	return [4]sexagenary.Pillar{p.Year, p.Month, p.Day, p.Hour}
}

// Valid reports whether all four are cycle pillars.
func (p Pillars) Valid() bool {
	for _, pl := range p.Array() {
		if !pl.Valid() {
			return false
		}
	}
	return true
}

// Method turns a wall-clock birth moment into pillars.
type Method interface {
	Name() Source
	Pillars(ctx context.Context, t time.Time) (Pillars, error)
}

// Reference points for the closed-form calculation.
const (
	// ReferenceYear is a 甲子 year; the year pillar is (year - 1984) mod 60.
	ReferenceYear = 1984

	// dayCycleOffset aligns the Julian Day Number with the day cycle:
	// JDN 2451545 (2000-01-01) is 戊午, cycle position 54.
	dayCycleOffset = 49

	// LateRatHour is the clock hour from which the 子 block begins.
	LateRatHour = 23
)

// jieDay approximates, per civil month, the day the month's "jie" solar term
// falls on. The sexagenary month (and, in February, the year) turns on it.
var jieDay = [12]int{6, 4, 6, 5, 6, 6, 7, 8, 8, 8, 7, 7}

// Arithmetic computes pillars without astronomy. Solar-term boundaries are
// taken as fixed days of the month, so births within a day or so of a term
// may land in the neighbouring month.
type Arithmetic struct{}

// Name implements Method.
func (Arithmetic) Name() Source { return SourceArithmetic }

// Pillars implements Method. It never fails.
func (a Arithmetic) Pillars(_ context.Context, t time.Time) (Pillars, error) {
	return a.Compute(t), nil
}

// Compute returns the four pillars for a wall-clock moment.
func (Arithmetic) Compute(t time.Time) Pillars {
	y, m, d := t.Date()

	monthBranch := sexagenary.Branch(int(m) % sexagenary.BranchCount)
	if d < jieDay[m-1] {
		monthBranch = monthBranch.Next(-1)
	}

	sexagenaryYear := y
	if m < time.February || (m == time.February && d < jieDay[time.February-1]) {
		sexagenaryYear--
	}

	year := YearPillar(sexagenaryYear)
	month := MonthPillar(year.Stem, monthBranch)
	day := DayPillar(y, m, d)
	hour := HourPillar(day.Stem, t.Hour())

	return Pillars{Year: year, Month: month, Day: day, Hour: hour}
}

// YearPillar returns the pillar of a sexagenary year: stem (year-4) mod 10,
// branch (year-4) mod 12.
func YearPillar(year int) sexagenary.Pillar {
	return sexagenary.PillarAt(year - ReferenceYear)
}

// MonthPillar applies the Five-Tiger rule: the year stem fixes the stem of
// the 寅 month and later months follow in cycle order.
func MonthPillar(yearStem sexagenary.Stem, branch sexagenary.Branch) sexagenary.Pillar {
	tigerStem := sexagenary.Stem((int(yearStem)%5)*2).Next(2)
	offset := int(branch) - int(sexagenary.Tiger)
	if offset < 0 {
		offset += sexagenary.BranchCount
	}
	return sexagenary.MustPillar(tigerStem.Next(offset), branch)
}

// DayPillar counts days from a fixed epoch through the Julian Day Number.
func DayPillar(year int, month time.Month, day int) sexagenary.Pillar {
	return sexagenary.PillarAt(julianDayNumber(year, month, day) + dayCycleOffset)
}

// HourPillar applies the Five-Rat rule: the day stem fixes the stem of the
// 子 hour. Births from 23:00 fall in the next day's 子 block, so the stem is
// taken from the following day while the day pillar itself stays put.
func HourPillar(dayStem sexagenary.Stem, hour int) sexagenary.Pillar {
	block := HourBlock(hour)
	if hour >= LateRatHour {
		dayStem = dayStem.Next(1)
	}
	ratStem := sexagenary.Stem((int(dayStem) % 5) * 2)
	return sexagenary.MustPillar(ratStem.Next(int(block)), block)
}

// HourBlock maps a clock hour to its two-hour branch: 23-00 子, 01-02 丑, …
func HourBlock(hour int) sexagenary.Branch {
	return sexagenary.Branch(((hour + 1) / 2) % sexagenary.BranchCount)
}

// julianDayNumber returns the JDN of a proleptic Gregorian date.
func julianDayNumber(year int, month time.Month, day int) int {
	a := (14 - int(month)) / 12
	y := year + 4800 - a
	m := int(month) + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}
