package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/bazi-api/internal/logger"
)

// Resolver converts births into pillars. It tries its primary method and
// falls back to Arithmetic on any failure, so it always answers.
type Resolver struct {
	primary  Method
	fallback Arithmetic
	timeout  time.Duration
	log      *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTimeout bounds each call to the primary method. Zero means no bound
// beyond the caller's context.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

// NewResolver returns a resolver that prefers primary. A nil primary means
// every birth is resolved arithmetically.
func NewResolver(primary Method, opts ...ResolverOption) *Resolver {
	r := &Resolver{primary: primary}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewLunarResolver is the standard resolver backed by lunar-go.
func NewLunarResolver(opts ...ResolverOption) *Resolver {
	return NewResolver(NewPrecise(LunarBackend{}), opts...)
}

// Resolve returns the pillars for birth and the method that produced them.
// Precise-path failures are never surfaced; they only show in debug logs.
func (r *Resolver) Resolve(ctx context.Context, birth Birth) (Pillars, Source) {
	if r.primary != nil {
		p, err := r.tryPrimary(ctx, birth.Time)
		if err == nil {
			return p, r.primary.Name()
		}
		r.logger(ctx).Debug("precise calendar unavailable, using arithmetic",
			slog.String("birth", birth.Time.Format(StampLayout)),
			slog.Any("error", err),
		)
	}
	return r.fallback.Compute(birth.Time), SourceArithmetic
}

// tryPrimary runs the primary method under a guard: panics, errors, an
// expired context and structurally invalid pillars all count as failure.
func (r *Resolver) tryPrimary(ctx context.Context, t time.Time) (p Pillars, err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			p, err = Pillars{}, fmt.Errorf("calendar method panicked: %v", rec)
		}
	}()

	p, err = r.primary.Pillars(ctx, t)
	if err != nil {
		return Pillars{}, err
	}
	if !p.Valid() {
		return Pillars{}, fmt.Errorf("%w: pillar outside the cycle", ErrMalformedReply)
	}
	return p, nil
}

func (r *Resolver) logger(ctx context.Context) *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return logger.FromContext(ctx)
}
