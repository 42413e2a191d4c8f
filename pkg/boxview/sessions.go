package boxview

import (
	"context"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateSessionOptions struct {
	// Duration of the session in minutes.
	Duration int

	// ExpiresAt accepts anything FormatDate does. It takes precedence over
	// Duration on the server.
	ExpiresAt interface{}

	// IsDownloadable is only sent when true.
	IsDownloadable bool

	// IsTextSelectable is sent when set. The server default is true.
	IsTextSelectable *bool
}

// CreateSession creates a viewing session for a converted document.
func (c *Client) CreateSession(ctx context.Context, documentID string, opts CreateSessionOptions) (*Session, error) {
	if err := validateDocumentID(documentID); err != nil {
		return nil, err
	}
	if err := validation.Validate(opts.Duration, validation.Min(0)); err != nil {
		return nil, invalidArgument(err)
	}

	expiresAt, err := FormatDate(opts.ExpiresAt)
	if err != nil {
		return nil, err
	}

	reqBody := createSessionRequest{
		DocumentID:       documentID,
		Duration:         opts.Duration,
		ExpiresAt:        expiresAt,
		IsDownloadable:   opts.IsDownloadable,
		IsTextSelectable: opts.IsTextSelectable,
	}

	var session Session
	if err := c.doJSON(ctx, http.MethodPost, "sessions", requestOptions{json: reqBody}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

type SessionURLKind string

const (
	SessionView     SessionURLKind = "view"
	SessionAssets   SessionURLKind = "assets"
	SessionDownload SessionURLKind = "download"
)

// SessionURL builds the URL of a session resource on the default API host.
// An empty kind means SessionView. params are merged into the query.
func SessionURL(sessionID string, kind SessionURLKind, params url.Values) (string, error) {
	return sessionURL(DefaultBaseURL, sessionID, kind, params)
}

// RealtimeURL builds the server-sent events URL of a session on the default
// API host.
func RealtimeURL(sessionID string) (string, error) {
	return realtimeURL(DefaultBaseURL, sessionID)
}

// SessionURL is like the package level SessionURL but uses the client's
// base URL.
func (c *Client) SessionURL(sessionID string, kind SessionURLKind, params url.Values) (string, error) {
	return sessionURL(c.baseURL, sessionID, kind, params)
}

func (c *Client) RealtimeURL(sessionID string) (string, error) {
	return realtimeURL(c.baseURL, sessionID)
}

func sessionURL(base, sessionID string, kind SessionURLKind, params url.Values) (string, error) {
	if kind == "" {
		kind = SessionView
	}
	err := validation.Errors{
		"session_id": validation.Validate(sessionID, validation.Required),
		"kind":       validation.Validate(kind, validation.In(SessionView, SessionAssets, SessionDownload)),
	}.Filter()
	if err != nil {
		return "", invalidArgument(err)
	}

	u, err := joinURL(base, "sessions/"+url.PathEscape(sessionID)+"/"+string(kind))
	if err != nil {
		return "", err
	}
	return addToURL(u, params)
}

// realtimeURL hangs off the host root rather than the versioned base.
func realtimeURL(base, sessionID string) (string, error) {
	if err := validation.Validate(sessionID, validation.Required.Error("session id is required")); err != nil {
		return "", invalidArgument(err)
	}
	return joinURL(base, "/sse/"+url.PathEscape(sessionID))
}
