package boxview

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Date is a calendar day without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day t falls on in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// FormatDate normalizes a date-like value to the ISO-8601 form the API
// expects. Strings are returned unchanged, times lose their sub-second part
// and are formatted as RFC 3339, and Dates are formatted as YYYY-MM-DD.
func FormatDate(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case time.Time:
		return v.Truncate(time.Second).Format(time.RFC3339), nil
	case *time.Time:
		if v == nil {
			return "", nil
		}
		return v.Truncate(time.Second).Format(time.RFC3339), nil
	case Date:
		return v.String(), nil
	case *Date:
		if v == nil {
			return "", nil
		}
		return v.String(), nil
	case nil:
		return "", nil
	}
	return "", invalidArgument(fmt.Errorf("invalid date: %v", value))
}

// mimetypeFromHeader returns the lower-cased media type of the response
// without parameters, or "" when there is no Content-Type.
func mimetypeFromHeader(h http.Header) string {
	ct := h.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt, _, _ = strings.Cut(ct, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// addToURL merges params into the query of raw. Keys in params replace
// existing keys.
func addToURL(raw string, params url.Values) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("error parsing url: %w", err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for k, vs := range params {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func joinURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("error parsing base url: %w", err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("error parsing url %q: %w", ref, err)
	}
	if !b.IsAbs() && !r.IsAbs() {
		return "", errors.New("base url must be absolute")
	}
	return b.ResolveReference(r).String(), nil
}
