package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

// StampLayout is the normalised date-time handed to a Backend.
const StampLayout = "2006-01-02T15:04:05"

// Default year window handed to the precise backend.
const (
	DefaultMinYear = 1900
	DefaultMaxYear = 2100
)

var (
	// ErrOutOfRange means the moment lies outside the backend's window.
	ErrOutOfRange = errors.New("outside precise calendar range")

	// ErrMalformedReply means the backend answered with an unusable shape.
	ErrMalformedReply = errors.New("malformed calendar reply")
)

// Backend is an external lunisolar calendar. Given a normalised stamp it
// returns a JSON document with "year", "month", "day" and "hour" members.
// Each member is either a two-symbol pillar ("甲子") or an object with
// "stem" and "branch" symbols.
type Backend interface {
	FourPillars(ctx context.Context, stamp string) ([]byte, error)
}

// Precise resolves pillars through a Backend that knows the true solar-term
// boundaries.
type Precise struct {
	backend Backend
	minYear int
	maxYear int
}

// PreciseOption configures a Precise method.
type PreciseOption func(*Precise)

// WithYearRange limits the years sent to the backend.
func WithYearRange(minYear, maxYear int) PreciseOption {
	return func(p *Precise) {
		p.minYear = minYear
		p.maxYear = maxYear
	}
}

// NewPrecise wraps backend as a Method.
func NewPrecise(backend Backend, opts ...PreciseOption) *Precise {
	p := &Precise{
		backend: backend,
		minYear: DefaultMinYear,
		maxYear: DefaultMaxYear,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Method.
func (p *Precise) Name() Source { return SourcePrecise }

// Pillars implements Method.
func (p *Precise) Pillars(ctx context.Context, t time.Time) (Pillars, error) {
	if err := ctx.Err(); err != nil {
		return Pillars{}, err
	}
	if p.backend == nil {
		return Pillars{}, errors.New("no calendar backend configured")
	}
	if y := t.Year(); y < p.minYear || y > p.maxYear {
		return Pillars{}, fmt.Errorf("year %d: %w", y, ErrOutOfRange)
	}

	reply, err := p.backend.FourPillars(ctx, t.Format(StampLayout))
	if err != nil {
		return Pillars{}, fmt.Errorf("calendar backend: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Pillars{}, err
	}

	return DecodePillars(reply)
}

// DecodePillars reads a backend reply. Anything short of four valid pillars
// is reported as ErrMalformedReply.
func DecodePillars(reply []byte) (Pillars, error) {
	if !gjson.ValidBytes(reply) {
		return Pillars{}, fmt.Errorf("%w: not JSON", ErrMalformedReply)
	}
	doc := gjson.ParseBytes(reply)
	if !doc.IsObject() {
		return Pillars{}, fmt.Errorf("%w: not an object", ErrMalformedReply)
	}

	var out Pillars
	fields := []struct {
		key string
		dst *sexagenary.Pillar
	}{
		{"year", &out.Year},
		{"month", &out.Month},
		{"day", &out.Day},
		{"hour", &out.Hour},
	}
	for _, f := range fields {
		p, err := decodePillar(doc.Get(f.key))
		if err != nil {
			return Pillars{}, fmt.Errorf("%w: %s: %v", ErrMalformedReply, f.key, err)
		}
		*f.dst = p
	}
	return out, nil
}

func decodePillar(v gjson.Result) (sexagenary.Pillar, error) {
	switch {
	case !v.Exists():
		return sexagenary.Pillar{}, errors.New("missing")
	case v.Type == gjson.String:
		return sexagenary.ParsePillar(v.Str)
	case v.IsObject():
		stem, branch := v.Get("stem"), v.Get("branch")
		if stem.Type != gjson.String || branch.Type != gjson.String {
			return sexagenary.Pillar{}, errors.New("stem and branch must be strings")
		}
		return sexagenary.ParsePillar(stem.Str + branch.Str)
	default:
		return sexagenary.Pillar{}, fmt.Errorf("unexpected %s", v.Type)
	}
}
