package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/mindthegap/internal/domain/model"
)

const requestIDHeader = "X-Request-ID"

// client is a small JSON client for the dashboard API. Every request carries
// an X-Request-ID derived from the run ID so server logs can be correlated.
type client struct {
	http    *http.Client
	baseURL string
	runID   string
	seq     atomic.Int64
}

func newClient(baseURL, runID string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		runID:   runID,
	}
}

// get fetches path and returns the body of a 200 response.
func (c *client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(requestIDHeader, c.runID+"-"+strconv.FormatInt(c.seq.Add(1), 10))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, path, resp.StatusCode)
	}
	return body, nil
}

func (c *client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// query encodes fs the way the charts endpoints read it.
func query(fs model.FilterState) url.Values {
	q := url.Values{}
	q.Set("year_min", strconv.Itoa(fs.YearMin))
	q.Set("year_max", strconv.Itoa(fs.YearMax))
	for _, c := range fs.Countries {
		q.Add("country", c)
	}
	return q
}
