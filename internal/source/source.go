// Package source fetches record datasets from files, HTTP endpoints and
// MongoDB collections.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/listctl/internal/config"
	"github.com/rshade/listctl/internal/records"
)

// Source errors.
var (
	ErrNoSource          = errors.New("no source configured")
	ErrUnsupportedSource = errors.New("unsupported source")
	ErrUnexpectedStatus  = errors.New("unexpected HTTP status")
	ErrNotDeletable      = errors.New("source does not support deletes")
	ErrDatasetTooLarge   = errors.New("dataset too large")
)

// Fetcher loads the full dataset of one kind.
type Fetcher interface {
	Fetch(ctx context.Context) ([]records.Record, error)
	Describe() string
}

// Deleter removes a record at its origin. Fetchers that can delete
// implement it.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// New builds the fetcher for kind from cfg. Location and every Include
// entry are selected by scheme: http(s) URLs, mongodb URIs, file URLs or
// plain paths. More than one location yields a MultiFetcher.
func New(kind records.Kind, cfg config.SourceConfig, log zerolog.Logger) (Fetcher, error) {
	locations := make([]string, 0, 1+len(cfg.Include))
	if loc := strings.TrimSpace(cfg.Location); loc != "" {
		locations = append(locations, loc)
	}
	for _, loc := range cfg.Include {
		if loc = strings.TrimSpace(loc); loc != "" {
			locations = append(locations, loc)
		}
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoSource, kind)
	}

	fetchers := make([]Fetcher, 0, len(locations))
	for _, loc := range locations {
		f, err := newOne(kind, loc, cfg, log)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, f)
	}
	if len(fetchers) == 1 {
		return fetchers[0], nil
	}
	return NewMultiFetcher(fetchers...), nil
}

func newOne(kind records.Kind, location string, cfg config.SourceConfig, log zerolog.Logger) (Fetcher, error) {
	u, err := url.Parse(location)
	// single-letter schemes are Windows drive letters
	if err != nil || len(u.Scheme) <= 1 {
		return &FileFetcher{Path: location, Kind: kind}, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return &FileFetcher{Path: u.Path, Kind: kind}, nil
	case "http", "https":
		return NewHTTPFetcher(location, kind, cfg.Token(), log), nil
	case "mongodb", "mongodb+srv":
		return &MongoFetcher{
			URI:        location,
			Database:   cfg.Database,
			Collection: cfg.Collection,
			Kind:       kind,
		}, nil
	default:
		return nil, fmt.Errorf("%w: scheme %q in %s", ErrUnsupportedSource, u.Scheme, location)
	}
}

// Delete removes id through f when f supports deletes.
func Delete(ctx context.Context, f Fetcher, id string) error {
	d, ok := f.(Deleter)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotDeletable, f.Describe())
	}
	return d.Delete(ctx, id)
}

// CanDelete reports whether f implements Deleter.
func CanDelete(f Fetcher) bool {
	_, ok := f.(Deleter)
	return ok
}

// FilePaths returns the local files behind f, for change watching.
func FilePaths(f Fetcher) []string {
	switch v := f.(type) {
	case *FileFetcher:
		return []string{v.Path}
	case *MultiFetcher:
		var paths []string
		for _, child := range v.fetchers {
			paths = append(paths, FilePaths(child)...)
		}
		return paths
	default:
		return nil
	}
}
