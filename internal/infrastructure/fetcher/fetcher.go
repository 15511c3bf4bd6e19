// Package fetcher downloads remote conversion sources.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/source"
	"github.com/bnema/ico256/internal/logging"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	defaultDelay    = 200 * time.Millisecond
)

// ErrUnsupportedScheme is returned for anything but http and https URLs.
var ErrUnsupportedScheme = errors.New("only http and https sources can be fetched")

// StatusError is returned for a non-200 response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Options configures a Fetcher. Zero values use defaults.
type Options struct {
	// Timeout bounds one attempt.
	Timeout time.Duration
	// Attempts counts the first try.
	Attempts  uint
	Delay     time.Duration
	UserAgent string
}

// Fetcher implements port.SourceFetcher over net/http.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts == 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = defaultDelay
	}
	return &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

var _ port.SourceFetcher = (*Fetcher)(nil)

// Fetch downloads rawURL, reading at most limit+1 bytes so an oversized body
// is still detected by validation. Transport errors and 5xx responses are
// retried with backoff; anything else fails at once.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, limit int64) (*port.FetchedSource, error) {
	log := logging.FromContext(ctx)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, rawURL)
	}

	return retry.DoWithData(
		func() (*port.FetchedSource, error) {
			return f.fetchOnce(ctx, u.String(), limit)
		},
		retry.Context(ctx),
		retry.Attempts(f.opts.Attempts),
		retry.Delay(f.opts.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("attempt", n+1).Str("url", rawURL).Msg("retrying source download")
		}),
	)
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string, limit int64) (*port.FetchedSource, error) {
	log := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	finalURL := resp.Request.URL.String()
	mediaType := resp.Header.Get("Content-Type")
	name := dispositionName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = source.NameFromURI(finalURL, mediaType)
	}

	log.Debug().
		Str("url", finalURL).
		Str("content_type", mediaType).
		Int("bytes", len(data)).
		Msg("source downloaded")

	return &port.FetchedSource{
		URL:       finalURL,
		Name:      name,
		MediaType: mediaType,
		Data:      data,
	}, nil
}

func dispositionName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil || params["filename"] == "" {
		return ""
	}
	return source.SanitizeName(params["filename"])
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return true
}
