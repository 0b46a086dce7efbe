package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lunar "github.com/6tail/lunar-go/calendar"
)

// LunarBackend answers Backend requests with the lunar-go library, which
// locates solar terms astronomically and applies the 23:00 子-hour rule.
type LunarBackend struct{}

type lunarReply struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
	Hour  string `json:"hour"`
}

// FourPillars implements Backend.
func (LunarBackend) FourPillars(ctx context.Context, stamp string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := time.Parse(StampLayout, stamp)
	if err != nil {
		return nil, fmt.Errorf("parse stamp: %w", err)
	}

	solar := lunar.NewSolar(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	eightChar := solar.GetLunar().GetEightChar()

	return json.Marshal(lunarReply{
		Year:  eightChar.GetYear(),
		Month: eightChar.GetMonth(),
		Day:   eightChar.GetDay(),
		Hour:  eightChar.GetTime(),
	})
}
