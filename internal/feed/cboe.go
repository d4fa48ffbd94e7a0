package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/logging"
	"gamma-profiler/internal/models"
	"gamma-profiler/internal/resilience"
	"gamma-profiler/pkg/utils"
)

const cboeSource = "cboe"

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d from %s: %s", e.Code, e.URL, e.Body)
	}
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// CBOEClient fetches delayed option chains from the CBOE CDN.
type CBOEClient struct {
	baseURL    string
	httpClient *http.Client
	retry      utils.RetryConfig
	breaker    *resilience.Breaker
	logger     zerolog.Logger
}

// CBOEOption configures a CBOEClient.
type CBOEOption func(*CBOEClient)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) CBOEOption {
	return func(cl *CBOEClient) { cl.httpClient = c }
}

// WithRetry replaces the retry policy.
func WithRetry(cfg utils.RetryConfig) CBOEOption {
	return func(cl *CBOEClient) { cl.retry = cfg }
}

// WithBreaker guards every request with b. Only transport failures and
// temporary statuses count against it.
func WithBreaker(b *resilience.Breaker) CBOEOption {
	return func(cl *CBOEClient) { cl.breaker = b }
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) CBOEOption {
	return func(cl *CBOEClient) { cl.logger = logger }
}

// NewCBOEClient creates a client rooted at baseURL.
func NewCBOEClient(baseURL string, timeout time.Duration, opts ...CBOEOption) *CBOEClient {
	c := &CBOEClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      utils.DefaultRetryConfig(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retry.Retryable = retryable
	return c
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// URLs returns the documents tried for ticker, in order. CBOE serves indices
// under an underscore prefix and most ETFs under both forms.
func (c *CBOEClient) URLs(ticker string) []string {
	t := NormalizeTicker(ticker)
	return []string{
		fmt.Sprintf("%s/_%s.json", c.baseURL, t),
		fmt.Sprintf("%s/%s.json", c.baseURL, t),
	}
}

// Fetch downloads and decodes the chain for ticker.
func (c *CBOEClient) Fetch(ctx context.Context, ticker string) (*models.Snapshot, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, errors.NewValidationError("ticker", ticker, "must not be empty")
	}
	logger := logging.WithTicker(c.logger, ticker)

	var lastErr error
	for _, url := range c.URLs(ticker) {
		body, err := utils.RetryWithResult(ctx, c.retry, func() ([]byte, error) {
			if c.breaker == nil {
				return c.get(ctx, logger, url)
			}
			return resilience.Do(c.breaker, func() ([]byte, error) {
				return c.get(ctx, logger, url)
			}, retryable)
		})
		if err != nil {
			lastErr = err
			var se *StatusError
			if errors.As(err, &se) && (se.Code == http.StatusNotFound || se.Code == http.StatusForbidden) {
				logger.Debug().Str("url", url).Int("status", se.Code).Msg("Chain not published here, trying next form")
				continue
			}
			break
		}
		return DecodePayload(bytes.NewReader(body), cboeSource, ticker)
	}

	if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
		return nil, lastErr
	}
	var se *StatusError
	if errors.As(lastErr, &se) && se.Code == http.StatusNotFound {
		return nil, errors.NewDataError(cboeSource, ticker, "no option chain published", errors.ErrTickerNotFound)
	}
	return nil, errors.NewDataError(cboeSource, ticker, "fetch failed", lastErr)
}

func (c *CBOEClient) get(ctx context.Context, logger zerolog.Logger, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create CBOE request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gamma-profiler/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LogAPICall(logger, http.MethodGet, url, time.Since(start), err)
		return nil, errors.Wrap(err, "CBOE request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		err := &StatusError{URL: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		logging.LogAPICall(logger, http.MethodGet, url, time.Since(start), err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	logging.LogAPICall(logger, http.MethodGet, url, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(err, "reading CBOE response")
	}
	return body, nil
}
