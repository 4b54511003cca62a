package hotpepper

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/phuslu/log"

	"github.com/kenmiya/gurume/internal/model"
)

// DefaultBaseURL is the gourmet search endpoint.
const DefaultBaseURL = "https://webservice.recruit.co.jp/hotpepper/gourmet/v1/"

// Client issues one HTTP request per result page. It never retries and
// never caches; retry policy belongs to the caller.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *log.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(apiKey string, opts ...Option) *Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	c := &Client{
		http: &http.Client{
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: 15 * time.Second,
		},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		logger:  &log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage requests one page of shops around coord. start is 1-based;
// count is the page size. The keyword is sent only when non-empty.
func (c *Client) FetchPage(ctx context.Context, coord model.Coordinate, params model.SearchParams, start, count int) (model.ResultPage, error) {
	if c.apiKey == "" {
		return model.ResultPage{}, ErrMissingCredential
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(coord.Lng, 'f', -1, 64))
	q.Set("range", strconv.Itoa(params.Range))
	q.Set("start", strconv.Itoa(start))
	q.Set("count", strconv.Itoa(count))
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}

	reqURL := c.baseURL + "?" + q.Encode()
	c.logger.Debug().Int("start", start).Int("count", count).Str("keyword", params.Keyword).Msg("fetching page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.ResultPage{}, &NetworkError{Reason: ReasonUnknown, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.ResultPage{}, &NetworkError{Reason: networkReason(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return model.ResultPage{}, &HTTPStatusError{Code: resp.StatusCode}
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return model.ResultPage{}, &MalformedResponseError{Err: err}
	}

	page := decoded.toPage()
	c.logger.Debug().Int("returned", page.Returned).Int("available", page.Available).Msg("page decoded")
	return page, nil
}
