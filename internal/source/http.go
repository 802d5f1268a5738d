package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/records"
)

// DefaultMaxBodyBytes caps the dataset size read from an HTTP source.
const DefaultMaxBodyBytes = 32 << 20

// retryLogger implements the retryablehttp.LeveledLogger interface on zerolog.
type retryLogger struct {
	log zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Trace().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}

// HTTPFetcher GETs a dataset from an HTTP endpoint with retries. Delete
// issues DELETE {URL}/{id}.
type HTTPFetcher struct {
	URL   string
	Kind  records.Kind
	Token string

	// MaxBodyBytes is the largest response body Fetch accepts.
	MaxBodyBytes int64

	// Client is exposed so callers can tune retries.
	Client *retryablehttp.Client
}

// NewHTTPFetcher creates an HTTPFetcher retrying up to three times with
// exponential backoff.
func NewHTTPFetcher(rawURL string, kind records.Kind, token string, log zerolog.Logger) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 250 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = retryLogger{log: log.With().Str("component", "source").Logger()}
	// Hand the last response back so the status check below reports it.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPFetcher{
		URL:          rawURL,
		Kind:         kind,
		Token:        token,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Client:       client,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]records.Record, error) {
	start := time.Now()
	resp, err := f.do(ctx, http.MethodGet, f.URL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", f.Describe(), err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w: response exceeds %d bytes", f.Describe(), ErrDatasetTooLarge, limit)
	}

	format := records.FormatFromContentType(resp.Header.Get("Content-Type"))
	recs, err := records.Decode(f.Kind, format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Describe(), err)
	}

	logger := logging.FromContext(ctx)
	logger.Debug().Ctx(ctx).
		Str("component", "source").
		Str("source", f.Describe()).
		Int("records", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("dataset fetched")
	return recs, nil
}

// Delete implements Deleter.
func (f *HTTPFetcher) Delete(ctx context.Context, id string) error {
	target := strings.TrimSuffix(f.URL, "/") + "/" + url.PathEscape(id)
	resp, err := f.do(ctx, http.MethodDelete, target)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// do sends one request and turns non-2xx responses into ErrUnexpectedStatus.
func (f *HTTPFetcher) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, redact(target), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrUnexpectedStatus, method, redact(target), resp.StatusCode)
	}
	return resp, nil
}

// Describe implements Fetcher.
func (f *HTTPFetcher) Describe() string { return redact(f.URL) }

// redact drops credentials and the query string from a URL for display.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
