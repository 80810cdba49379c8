// Package client is a Go client for the zexpr service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/api"
	"github.com/brimdata/zexpr/filter"
	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zio/ndjsonio"
)

const (
	// DefaultPort is the port the service listens on by default.
	DefaultPort      = 9870
	DefaultUserAgent = "zexpr-client-golang"
)

type Connection struct {
	client        *http.Client
	defaultHeader http.Header
	hostURL       string
}

// NewConnection creates a new connection to http://localhost:DefaultPort.
func NewConnection() *Connection {
	return NewConnectionTo("http://localhost:" + strconv.Itoa(DefaultPort))
}

// NewConnectionTo creates a new connection with a base URL derived from
// the hostURL argument.
func NewConnectionTo(hostURL string) *Connection {
	h := http.Header{"User-Agent": []string{DefaultUserAgent}}
	return &Connection{
		client:        &http.Client{},
		defaultHeader: h,
		hostURL:       strings.TrimRight(hostURL, "/"),
	}
}

func (c *Connection) ClientHostURL() string {
	return c.hostURL
}

func (c *Connection) SetUserAgent(useragent string) {
	c.defaultHeader.Set("User-Agent", useragent)
}

type Response struct {
	*http.Response
	Duration time.Duration
}

// Do sends a request with the given method, path and body.  A non-2xx
// response is returned as an *ErrorResponse with its body consumed.
func (c *Connection) Do(ctx context.Context, method, path string, header http.Header, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.hostURL+path, body)
	if err != nil {
		return nil, err
	}
	for key, val := range c.defaultHeader {
		req.Header[key] = val
	}
	for key, val := range header {
		req.Header[key] = val
	}
	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, parseError(res)
	}
	return &Response{Response: res, Duration: time.Since(start)}, nil
}

func (c *Connection) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	var header http.Header
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		header = http.Header{"Content-Type": []string{api.MediaTypeJSON}}
	}
	res, err := c.Do(ctx, method, path, header, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(out)
}

// parseError parses an error from an http.Response with an error status
// code.
func parseError(r *http.Response) error {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	resErr := &ErrorResponse{Response: r}
	if r.Header.Get("Content-Type") == api.MediaTypeJSON {
		var apierr api.Error
		if err := json.Unmarshal(body, &apierr); err != nil {
			return err
		}
		resErr.Err = &apierr
	} else {
		resErr.Err = errors.New(string(body))
	}
	return resErr
}

// Ping checks that the server is up and measures the time it takes to get
// back a response.
func (c *Connection) Ping(ctx context.Context) (time.Duration, error) {
	res, err := c.Do(ctx, http.MethodGet, "/status", nil, nil)
	if err != nil {
		return 0, err
	}
	res.Body.Close()
	return res.Duration, nil
}

// Version retrieves the version string from the service.
func (c *Connection) Version(ctx context.Context) (string, error) {
	var res api.VersionResponse
	err := c.doJSON(ctx, http.MethodGet, "/version", nil, &res)
	return res.Version, err
}

func (c *Connection) Status(ctx context.Context) (api.StatusResponse, error) {
	var res api.StatusResponse
	err := c.doJSON(ctx, http.MethodGet, "/status", nil, &res)
	return res, err
}

func (c *Connection) Config(ctx context.Context) (filter.Config, error) {
	var conf filter.Config
	err := c.doJSON(ctx, http.MethodGet, "/config", nil, &conf)
	return conf, err
}

// SetConfig replaces the filter configuration and returns the
// configuration now in effect.
func (c *Connection) SetConfig(ctx context.Context, conf filter.Config) (filter.Config, error) {
	var out filter.Config
	err := c.doJSON(ctx, http.MethodPut, "/config", conf, &out)
	return out, err
}

// PostReadings sends newline delimited JSON readings from r to the service
// and returns the response, whose body holds the processed readings in
// format.  The caller must close the response body.
func (c *Connection) PostReadings(ctx context.Context, r io.Reader, format string) (*Response, error) {
	path := "/readings"
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}
	header := http.Header{"Content-Type": []string{api.MediaTypeNDJSON}}
	return c.Do(ctx, http.MethodPost, path, header, r)
}

// Process sends readings through the service's filter and returns the
// processed readings.
func (c *Connection) Process(ctx context.Context, readings []*zexpr.Reading) ([]*zexpr.Reading, error) {
	var buf bytes.Buffer
	w := ndjsonio.NewWriter(zio.NopCloser(&buf))
	for _, r := range readings {
		if err := w.Write(r); err != nil {
			return nil, err
		}
	}
	res, err := c.PostReadings(ctx, &buf, "ndjson")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out zio.Array
	if err := zio.Copy(ctx, &out, ndjsonio.NewReader(res.Body)); err != nil {
		return nil, err
	}
	return out.Readings(), nil
}

type ErrorResponse struct {
	*http.Response
	Err error
}

func (e *ErrorResponse) Unwrap() error {
	return e.Err
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("status code %d: %v", e.StatusCode, e.Err)
}
