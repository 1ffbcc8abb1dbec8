// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wiki authenticates against the Confluence REST API and reads and
// writes a single page under optimistic concurrency control.
package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/pubsync/pkg/types"
)

// probePath is a cheap read-only endpoint used to verify a session.
const probePath = "rest/api/space"

// Session is an authenticated HTTP context for one run. It is mutated in
// place by the Authenticate methods and is not safe for concurrent
// authentication attempts; callers must serialize runs.
type Session struct {
	baseURL   string
	userAgent string
	client    *http.Client

	// credential material: either a replayed cookie header or a basic
	// auth pair, never both.
	cookieHeader string
	username     string
	password     string

	verified bool
}

// NewSession creates an unauthenticated session for the configured wiki.
// The base URL gains a trailing slash when missing.
func NewSession(cfg types.WikiConfig, client *http.Client) *Session {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Session{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/") + "/",
		userAgent: cfg.UserAgent,
		client:    client,
	}
}

// BaseURL returns the normalized wiki root.
func (s *Session) BaseURL() string { return s.baseURL }

// Verified reports whether an Authenticate call has succeeded.
func (s *Session) Verified() bool { return s.verified }

// AuthenticateCookies installs a browser cookie header ("name=value;
// name=value") into the session and verifies it against a read-only
// endpoint. An optional "Cookie: " prefix is stripped.
func (s *Session) AuthenticateCookies(ctx context.Context, cookieHeader string) error {
	cookieHeader = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cookieHeader), "Cookie:"))

	pairs := parseCookiePairs(cookieHeader)
	if len(pairs) == 0 {
		return &AuthError{Reason: ReasonInvalidCredentials, Err: fmt.Errorf("no name=value pairs in cookie header")}
	}
	s.cookieHeader = strings.Join(pairs, "; ")
	s.username, s.password = "", ""

	return s.verify(ctx)
}

// AuthenticateBasic installs a username/secret pair and verifies it.
func (s *Session) AuthenticateBasic(ctx context.Context, username, secret string) error {
	if username == "" || secret == "" {
		return &AuthError{Reason: ReasonInvalidCredentials, Err: fmt.Errorf("empty username or password")}
	}
	s.username, s.password = username, secret
	s.cookieHeader = ""

	return s.verify(ctx)
}

// verify performs the lightweight probe call. Success requires HTTP 200.
func (s *Session) verify(ctx context.Context) error {
	req, err := s.newRequest(ctx, http.MethodGet, probePath, nil)
	if err != nil {
		return &AuthError{Reason: ReasonNetworkError, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.verified = false
		return &AuthError{Reason: ReasonNetworkError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.verified = false
		return &AuthError{Reason: ReasonVerificationFailed, Err: fmt.Errorf("probe returned HTTP %d", resp.StatusCode)}
	}

	s.verified = true
	return nil
}

// newRequest builds a request with the session's credentials applied.
func (s *Session) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if s.cookieHeader != "" {
		req.Header.Set("Cookie", s.cookieHeader)
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	return req, nil
}

// parseCookiePairs extracts well-formed name=value pairs, dropping
// fragments without an equals sign.
func parseCookiePairs(header string) []string {
	var pairs []string
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if name, value, ok := strings.Cut(part, "="); ok && name != "" {
			pairs = append(pairs, name+"="+value)
		}
	}
	return pairs
}
