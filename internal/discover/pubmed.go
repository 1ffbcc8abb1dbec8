// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover finds candidate publications on PubMed, scores them
// for relevance, and runs the discovery pipeline that feeds the
// publications table.
package discover

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/pubsync/internal/httputil"
	"github.com/pdiddy/pubsync/pkg/types"
)

// eutilsAPIBase is the NCBI E-utilities endpoint. Declared as a var so
// tests can substitute an httptest server.
var eutilsAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// Client queries the PubMed E-utilities API.
type Client struct {
	HTTP *http.Client
	// Tool and Email identify the caller to NCBI, which asks for both
	// on automated traffic.
	Tool  string
	Email string
	// APIKey raises the NCBI rate limit from 3 to 10 requests per second.
	APIKey string

	// Warnings receives per-article parse problems. Nil discards them.
	Warnings io.Writer
}

// Search runs an esearch query and returns the matching PMIDs, newest
// first as PubMed orders them.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", maxResults)},
		"retmode": {"json"},
	}
	c.identify(params)

	resp, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("PubMed search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed search returned HTTP %d", resp.StatusCode)
	}

	var sr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing PubMed search response: %w", err)
	}
	return sr.Result.IDList, nil
}

// FetchDetails runs an efetch for the given PMIDs and parses the article
// records. Articles that fail to parse are skipped with a warning rather
// than failing the batch.
func (c *Client) FetchDetails(ctx context.Context, pmids []string) ([]types.Publication, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"rettype": {"xml"},
	}
	c.identify(params)

	resp, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed fetch returned HTTP %d", resp.StatusCode)
	}

	var set articleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed fetch response: %w", err)
	}

	var pubs []types.Publication
	for _, art := range set.Articles {
		pub, err := art.toPublication()
		if err != nil {
			if c.Warnings != nil {
				fmt.Fprintf(c.Warnings, "warning: skipping PubMed article: %v\n", err)
			}
			continue
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func (c *Client) identify(params url.Values) {
	if c.Tool != "" {
		params.Set("tool", c.Tool)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eutilsAPIBase+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	return httputil.DoWithRetry(ctx, client, req, 3)
}

// esearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// efetch XML structures, the subset of PubmedArticle the table needs.
type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID     string       `xml:"MedlineCitation>PMID"`
	Title    string       `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal  string       `xml:"MedlineCitation>Article>Journal>Title"`
	PubDate  pubDate      `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate"`
	Authors  []authorName `xml:"MedlineCitation>Article>AuthorList>Author"`
	Abstract []string     `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	IDs      []articleID  `xml:"PubmedData>ArticleIdList>ArticleId"`
}

type pubDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
}

type authorName struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type articleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

func (a pubmedArticle) toPublication() (types.Publication, error) {
	if a.PMID == "" {
		return types.Publication{}, fmt.Errorf("article has no PMID")
	}
	pub := types.Publication{
		PMID:     a.PMID,
		Title:    strings.TrimSpace(a.Title),
		Journal:  strings.TrimSpace(a.Journal),
		Year:     a.PubDate.Year,
		Month:    a.PubDate.Month,
		Abstract: strings.TrimSpace(strings.Join(a.Abstract, " ")),
	}
	for _, author := range a.Authors {
		if author.LastName == "" {
			continue
		}
		name := author.LastName
		if author.ForeName != "" {
			// Table convention: last name plus first initial.
			name += " " + author.ForeName[:1]
		}
		pub.Authors = append(pub.Authors, name)
	}
	for _, id := range a.IDs {
		if id.Type == "doi" {
			pub.DOI = strings.TrimSpace(id.Value)
			break
		}
	}
	return pub, nil
}
