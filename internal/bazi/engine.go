package bazi

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/logger"
)

// Reading is a chart together with all of its derived views.
type Reading struct {
	Chart         Chart            `json:"chart" yaml:"chart"`
	TenGods       [4]PillarTenGods `json:"ten_gods" yaml:"ten_gods"`
	Nayin         [4]PillarNayin   `json:"nayin" yaml:"nayin"`
	Relationships []Finding        `json:"relationships" yaml:"relationships"`
	Elements      Distribution     `json:"elements" yaml:"elements"`
	Void          Void             `json:"void" yaml:"void"`
}

// Analyze derives every view of an enriched chart.
func Analyze(c Chart) Reading {
	return Reading{
		Chart:         c,
		TenGods:       TenGods(c),
		Nayin:         NayinView(c),
		Relationships: Relationships(c),
		Elements:      Elements(c),
		Void:          VoidView(c),
	}
}

// Engine runs the full pipeline: resolve pillars, enrich, analyze.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	resolver    *calendar.Resolver
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds the parallelism of CalculateBatch.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine creates an engine over resolver.
func NewEngine(resolver *calendar.Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver:    resolver,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate returns the reading for one birth. It always produces a full
// chart; a failing precise calendar silently degrades to arithmetic.
func (e *Engine) Calculate(ctx context.Context, birth calendar.Birth) Reading {
	pillars, source := e.resolver.Resolve(ctx, birth)
	chart := Enrich(birth, pillars, source)

	logger.Debug(ctx, "chart calculated",
		slog.String("day_master", chart.DayMaster().String()),
		slog.String("source", string(source)),
	)

	return Analyze(chart)
}

// CalculateBatch computes readings in parallel, preserving input order.
// The only error is the context ending before every reading is done.
func (e *Engine) CalculateBatch(ctx context.Context, births []calendar.Birth) ([]Reading, error) {
	out := make([]Reading, len(births))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, birth := range births {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Calculate(gctx, birth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
