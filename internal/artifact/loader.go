package artifact

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loader loads a model at most once and hands the same Handle to every
// caller. A failed load is remembered and returned on every later call.
type Loader struct {
	source Source
	opts   Options

	once   sync.Once
	handle *Handle
	err    error
}

// NewLoader creates a loader over source.
func NewLoader(source Source, opts Options) *Loader {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Loader{source: source, opts: opts}
}

// Get returns the loaded model, loading it on first use.
func (l *Loader) Get(ctx context.Context) (*Handle, error) {
	l.once.Do(func() {
		start := time.Now()
		l.handle, l.err = l.source.Load(ctx, l.opts)
		if l.err != nil {
			l.opts.Logger.Error("model artifact load failed",
				slog.String("source", l.source.Describe()),
				slog.Any("error", l.err),
			)
			return
		}
		l.opts.Logger.Info("model artifact loaded",
			slog.String("source", l.source.Describe()),
			slog.String("model", l.handle.Name),
			slog.String("kind", l.handle.Kind),
			slog.String("variant", l.handle.Variant.Name),
			slog.Int("columns", l.handle.Predictor.Schema().Len()),
			slog.Duration("took", time.Since(start)),
		)
	})
	return l.handle, l.err
}
