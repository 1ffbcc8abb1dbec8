// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

const efetchFixture = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>32621243</PMID>
      <Article>
        <Journal>
          <JournalIssue>
            <PubDate><Year>2020</Year><Month>Jul</Month></PubDate>
          </JournalIssue>
          <Title>European Radiology</Title>
        </Journal>
        <ArticleTitle>Chest CT findings in COVID-19 pneumonia</ArticleTitle>
        <Abstract>
          <AbstractText>Imaging of the lung in coronavirus infection.</AbstractText>
        </Abstract>
        <AuthorList>
          <Author><LastName>Surov</LastName><ForeName>Alexey</ForeName></Author>
          <Author><LastName>Meyer</LastName><ForeName>Hans Jonas</ForeName></Author>
          <Author><CollectiveName>Study Group</CollectiveName></Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">32621243</ArticleId>
        <ArticleId IdType="doi">10.1007/s00330-020-07033-y</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <Article>
        <ArticleTitle>Record without a PMID</ArticleTitle>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func withEutilsServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	orig := eutilsAPIBase
	eutilsAPIBase = srv.URL + "/"
	t.Cleanup(func() { eutilsAPIBase = orig })

	return &Client{HTTP: srv.Client(), Tool: "pubsync-test", Email: "dev@example.org"}
}

func TestSearchReturnsPMIDs(t *testing.T) {
	var gotQuery url.Values
	client := withEutilsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/esearch.fcgi") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"esearchresult":{"count":"2","idlist":["32621243","33296871"]}}`))
	})

	pmids, err := client.Search(context.Background(), "(COVID-19) AND (chest CT)", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(pmids) != 2 || pmids[0] != "32621243" {
		t.Errorf("unexpected PMIDs: %v", pmids)
	}

	for key, want := range map[string]string{
		"db":      "pubmed",
		"term":    "(COVID-19) AND (chest CT)",
		"retmax":  "5",
		"retmode": "json",
		"tool":    "pubsync-test",
		"email":   "dev@example.org",
	} {
		if got := gotQuery.Get(key); got != want {
			t.Errorf("param %s = %q, want %q", key, got, want)
		}
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client := &Client{}
	if _, err := client.Search(context.Background(), "   ", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchServerError(t *testing.T) {
	client := withEutilsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if _, err := client.Search(context.Background(), "anything", 5); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestFetchDetailsParsesArticles(t *testing.T) {
	var warnings bytes.Buffer
	client := withEutilsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/efetch.fcgi") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "32621243,33296871" {
			t.Errorf("id param = %q", got)
		}
		w.Write([]byte(efetchFixture))
	})
	client.Warnings = &warnings

	pubs, err := client.FetchDetails(context.Background(), []string{"32621243", "33296871"})
	if err != nil {
		t.Fatalf("FetchDetails failed: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 parsed publication, got %d", len(pubs))
	}

	pub := pubs[0]
	if pub.PMID != "32621243" {
		t.Errorf("PMID = %q", pub.PMID)
	}
	if pub.Title != "Chest CT findings in COVID-19 pneumonia" {
		t.Errorf("Title = %q", pub.Title)
	}
	if pub.Journal != "European Radiology" {
		t.Errorf("Journal = %q", pub.Journal)
	}
	if pub.Year != "2020" || pub.Month != "Jul" {
		t.Errorf("date = %s/%s", pub.Year, pub.Month)
	}
	if pub.DOI != "10.1007/s00330-020-07033-y" {
		t.Errorf("DOI = %q", pub.DOI)
	}
	if len(pub.Authors) != 2 || pub.Authors[0] != "Surov A" || pub.Authors[1] != "Meyer H" {
		t.Errorf("Authors = %v", pub.Authors)
	}
	if !strings.Contains(pub.Abstract, "coronavirus") {
		t.Errorf("Abstract = %q", pub.Abstract)
	}

	if !strings.Contains(warnings.String(), "warning:") {
		t.Errorf("expected a warning for the PMID-less record, got %q", warnings.String())
	}
}

func TestFetchDetailsEmptyInput(t *testing.T) {
	client := &Client{}
	pubs, err := client.FetchDetails(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchDetails failed: %v", err)
	}
	if pubs != nil {
		t.Errorf("expected no publications, got %v", pubs)
	}
}
