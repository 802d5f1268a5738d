package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/records"
)

// FileFetcher reads a JSON or YAML dataset from disk. The format follows
// the file extension.
type FileFetcher struct {
	Path string
	Kind records.Kind
}

// Fetch implements Fetcher.
func (f *FileFetcher) Fetch(ctx context.Context) ([]records.Record, error) {
	start := time.Now()
	format, err := records.FormatFromPath(f.Path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}

	recs, err := records.Decode(f.Kind, format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}

	logger := logging.FromContext(ctx)
	logger.Debug().Ctx(ctx).
		Str("component", "source").
		Str("source", f.Describe()).
		Int("records", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("dataset read")
	return recs, nil
}

// Describe implements Fetcher.
func (f *FileFetcher) Describe() string { return "file:" + f.Path }
