// Package loader runs dataset fetches off the UI goroutine and discards
// results that a newer fetch has superseded.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/listctl/internal/records"
	"github.com/rshade/listctl/internal/source"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second

// Result is the outcome of one fetch.
type Result struct {
	// Token is the generation that started the fetch.
	Token    uint64
	Records  []records.Record
	Err      error
	Duration time.Duration
}

// Loader numbers fetches and accepts only the result of the latest one.
type Loader struct {
	fetcher source.Fetcher
	timeout time.Duration
	log     zerolog.Logger

	mu  sync.Mutex
	gen uint64
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout bounds each fetch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New creates a Loader for f.
func New(f source.Fetcher, opts ...Option) *Loader {
	l := &Loader{fetcher: f, timeout: DefaultTimeout, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With().Str("component", "loader").Logger()
	return l
}

// Start begins a new generation and returns its token with a function that
// performs the fetch. The function blocks and is meant to run on another
// goroutine; it never touches loader state other than reading the fetcher.
func (l *Loader) Start(ctx context.Context) (uint64, func() Result) {
	l.mu.Lock()
	l.gen++
	token := l.gen
	l.mu.Unlock()

	l.log.Debug().Ctx(ctx).Uint64("token", token).Str("source", l.fetcher.Describe()).Msg("fetch started")

	return token, func() Result {
		fctx := ctx
		if l.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, l.timeout)
			defer cancel()
		}
		start := time.Now()
		recs, err := l.fetcher.Fetch(fctx)
		return Result{Token: token, Records: recs, Err: err, Duration: time.Since(start)}
	}
}

// Accept reports whether r belongs to the latest generation. Stale results
// are logged and must be dropped by the caller.
func (l *Loader) Accept(r Result) bool {
	l.mu.Lock()
	latest := l.gen
	l.mu.Unlock()

	if r.Token != latest {
		l.log.Debug().
			Uint64("token", r.Token).
			Uint64("latest", latest).
			Msg("stale fetch result dropped")
		return false
	}

	ev := l.log.Debug().Uint64("token", r.Token).Dur("duration", r.Duration)
	if r.Err != nil {
		ev.Err(r.Err).Msg("fetch failed")
	} else {
		ev.Int("records", len(r.Records)).Msg("fetch completed")
	}
	return true
}

// Latest returns the most recently started generation, or 0.
func (l *Loader) Latest() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Fetcher returns the underlying fetcher.
func (l *Loader) Fetcher() source.Fetcher { return l.fetcher }
