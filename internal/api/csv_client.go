package api

import (
	"context"
	"errors"
	"fmt"
	"ootp-toolkit/internal/config"
	"ootp-toolkit/internal/constants"
	"ootp-toolkit/internal/domain"
	"ootp-toolkit/internal/ingest"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// FetchError reports a download that failed before any CSV was decoded.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// CSVClient downloads exported stat tables over HTTP.
type CSVClient struct {
	client *fasthttp.Client
	logger zerolog.Logger
}

// NewCSVClient refuses to fetch from loopback, private and link-local
// addresses unless cfg.CSVFetchAllowPrivate is set.
func NewCSVClient(cfg *config.Config, logger zerolog.Logger) *CSVClient {
	if cfg.CSVFetchAllowPrivate {
		logger.Warn().Msg("csv fetch may reach private addresses")
		return newCSVClient(cfg.CSVMaxBytes, nil, logger)
	}
	return newCSVClient(cfg.CSVMaxBytes, publicDial, logger)
}

func newCSVClient(maxBytes int, dial fasthttp.DialFunc, logger zerolog.Logger) *CSVClient {
	return &CSVClient{
		client: &fasthttp.Client{
			Name:                "ootp-toolkit",
			Dial:                dial,
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
			MaxResponseBodySize: maxBytes,
		},
		logger: logger,
	}
}

// Fetch downloads url and decodes it as a stat table.
func (c *CSVClient) Fetch(ctx context.Context, url string) (domain.Table, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return domain.Table{}, &FetchError{URL: url, Err: errors.New("url must be http or https")}
	}

	start := time.Now()
	body, err := c.doRequest(ctx, url)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("csv fetch failed")
		return domain.Table{}, err
	}
	c.logger.Debug().
		Str("url", url).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("csv fetched")

	return ingest.DecodeBytes(body)
}

func (c *CSVClient) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &FetchError{URL: url, Status: resp.StatusCode()}
	}

	// resp is released on return
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
