package httpclient

import (
	"compress/gzip"
	"context"
	"fmt"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"steamcli/pkg/api"
)

const (
	// UserAgent is sent with every request.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultTimeout = 60 * time.Second

	redacted = "REDACTED"
)

// secretParams are query parameters whose values never appear in errors.
var secretParams = map[string]bool{"key": true, "api_key": true, "apikey": true, "token": true}

// Client is a blocking GET helper. Non-2xx responses become
// *api.StatusError; there is no retry.
type Client struct {
	HTTP *http.Client
}

func New() *Client {
	return &Client{
		HTTP: &http.Client{Timeout: defaultTimeout},
	}
}

// Get fetches rawURL and returns the decoded body. detail names the resource
// in error messages, which carry the URL with credentials masked.
func (c *Client) Get(ctx context.Context, rawURL, detail string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", detail, err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = Redact(ue.URL)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", detail, err)
	}
	defer resp.Body.Close()

	if !api.IsSuccess(resp.StatusCode) {
		return nil, api.NewStatusError(resp.StatusCode, detail+" not found", Redact(rawURL))
	}

	reader, err := decodedReader(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", detail, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", detail, err)
	}

	return body, nil
}

// decodedReader handles compression. Setting Accept-Encoding ourselves turns
// off the transport's transparent gzip, so every encoding is handled here.
func decodedReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

// Redact masks the values of credential query parameters in rawURL. The
// order of the remaining parameters is left as it was.
func Redact(rawURL string) string {
	base, query, ok := strings.Cut(rawURL, "?")
	if !ok {
		return rawURL
	}
	query, fragment, hasFragment := strings.Cut(query, "#")

	params := strings.Split(query, "&")
	for i, param := range params {
		name, _, _ := strings.Cut(param, "=")
		if unescaped, err := url.QueryUnescape(name); err == nil {
			name = unescaped
		}
		if secretParams[strings.ToLower(name)] {
			params[i] = name + "=" + redacted
		}
	}

	out := base + "?" + strings.Join(params, "&")
	if hasFragment {
		out += "#" + fragment
	}
	return out
}
