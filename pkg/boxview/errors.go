package boxview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingAPIKey is returned by NewClient when neither the config nor
	// the environment provide an API key.
	ErrMissingAPIKey = errors.New("boxview: api key is required")

	// ErrInvalidArgument wraps every local validation failure. Calls that
	// fail with it never reach the network.
	ErrInvalidArgument = errors.New("boxview: invalid argument")
)

func invalidArgument(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
}

// APIError is returned for any response outside the 2xx range that does not
// carry a Retry-After header.
type APIError struct {
	StatusCode  int
	Reason      string
	ContentType string
	Body        []byte
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	return &APIError{
		StatusCode:  resp.StatusCode,
		Reason:      reasonPhrase(resp),
		ContentType: mimetypeFromHeader(resp.Header),
		Body:        body,
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP Status: %d %s", e.StatusCode, e.detail())
}

func (e *APIError) detail() string {
	if e.ContentType == "application/json" && len(e.Body) > 0 {
		if pretty, err := prettyJSON(e.Body); err == nil {
			return "\n" + pretty
		}
		return string(e.Body)
	}
	return e.Reason
}

// RetryAfterError is returned whenever a response carries a Retry-After
// header, regardless of its status code. Callers are expected to wait
// Delay() and reissue the call.
type RetryAfterError struct {
	StatusCode int
	Seconds    float64
	Header     http.Header
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("retry after %s seconds", strconv.FormatFloat(e.Seconds, 'f', -1, 64))
}

func (e *RetryAfterError) Delay() time.Duration {
	return time.Duration(e.Seconds * float64(time.Second))
}

func newRetryAfterError(resp *http.Response, value string, now time.Time) *RetryAfterError {
	return &RetryAfterError{
		StatusCode: resp.StatusCode,
		Seconds:    parseRetryAfter(value, now),
		Header:     resp.Header,
	}
}

// parseRetryAfter accepts delta-seconds (fractions allowed) or an HTTP-date.
func parseRetryAfter(value string, now time.Time) float64 {
	value = strings.TrimSpace(value)
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs < 0 {
			return 0
		}
		return secs
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Seconds()
		}
	}
	return 0
}

func reasonPhrase(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

// prettyJSON re-encodes a JSON document with sorted keys and a four space
// indent.
func prettyJSON(data []byte) (string, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
