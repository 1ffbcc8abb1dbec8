// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/pubsync/internal/httputil"
)

// Page is a wiki page as returned by the content API.
type Page struct {
	ID      string
	Title   string
	Version int
	Content string
	WebUI   string
}

// Repository reads and writes pages through an authenticated session.
// It holds no page-level cache: every Fetch is a live, authoritative call.
type Repository struct {
	session *Session
}

// NewRepository wraps a session. The repository borrows the session for
// the duration of one run and does not own it.
func NewRepository(s *Session) *Repository {
	return &Repository{session: s}
}

// Confluence content API JSON structures.
type pageResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

type pageWriteBody struct {
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Body  struct {
		Storage struct {
			Value          string `json:"value"`
			Representation string `json:"representation"`
		} `json:"storage"`
	} `json:"body"`
}

// Fetch retrieves a page with the given expand selector (e.g.
// "body.storage,version"). The selector is passed to the remote system
// verbatim; unsupported fields are its business.
func (r *Repository) Fetch(ctx context.Context, pageID, fields string) (*Page, error) {
	path := "rest/api/content/" + pageID
	if fields != "" {
		path += "?expand=" + url.QueryEscape(fields)
	}

	req, err := r.session.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, r.session.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", pageID, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var pr pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing page response: %w", err)
	}
	return pageFromResponse(&pr), nil
}

// Write updates a page's content, submitting baseVersion+1. If the true
// version no longer matches baseVersion the remote system rejects the
// write and the failure surfaces as ErrConflict. On success the returned
// page carries the echoed new version, which equals baseVersion+1.
func (r *Repository) Write(ctx context.Context, pageID, title, content string, baseVersion int) (*Page, error) {
	var body pageWriteBody
	body.Version.Number = baseVersion + 1
	body.Title = title
	body.Type = "page"
	body.Body.Storage.Value = content
	body.Body.Storage.Representation = "storage"

	payload, err := json.Marshal(&body)
	if err != nil {
		return nil, fmt.Errorf("encoding write body: %w", err)
	}

	req, err := r.session.newRequest(ctx, http.MethodPut, "rest/api/content/"+pageID, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.session.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("updating page %s: %w", pageID, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var pr pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing update response: %w", err)
	}
	return pageFromResponse(&pr), nil
}

func pageFromResponse(pr *pageResponse) *Page {
	return &Page{
		ID:      pr.ID,
		Title:   pr.Title,
		Version: pr.Version.Number,
		Content: pr.Body.Storage.Value,
		WebUI:   pr.Links.WebUI,
	}
}

// checkStatus maps non-200 responses onto the error taxonomy, surfacing
// the response body text to the caller.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: HTTP 404: %s", ErrNotFound, bytes.TrimSpace(body))
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d: %s", ErrForbidden, resp.StatusCode, bytes.TrimSpace(body))
	case http.StatusConflict:
		return fmt.Errorf("%w: HTTP 409: %s", ErrConflict, bytes.TrimSpace(body))
	default:
		return fmt.Errorf("wiki API returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
}
