// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubsync pipeline.
package types

// Publication is a bibliographic record returned by the PubMed detail
// endpoint. It is created per search hit, enriched with a relevance score,
// and either promoted to a table Row or discarded.
type Publication struct {
	// PMID is the PubMed identifier, unique per record.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the authors in source order, formatted "Lastname F".
	Authors []string `json:"authors" yaml:"authors"`

	// Journal is the publication venue.
	Journal string `json:"journal" yaml:"journal"`

	// Year and Month are the publication date as PubMed reports it.
	// Month may be a name ("Mar"), a number, or empty.
	Year  string `json:"year" yaml:"year"`
	Month string `json:"month" yaml:"month"`

	// DOI is the cross-reference identifier, empty when absent.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Abstract is a truncated abstract excerpt.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Score is the relevance score in [0,100] assigned by the scoring rubric.
	Score int `json:"score" yaml:"score"`

	// Query records which planned query found this record.
	Query string `json:"query,omitempty" yaml:"query,omitempty"`
}
