// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"strings"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Scoring weights. The rubric is additive and the total clamps to 100.
const (
	pandemicPoints    = 30
	imagingPointsEach = 8
	imagingPointsCap  = 25
	authorPointsEach  = 15
	authorPointsCap   = 25
	venuePoints       = 10
	periodPoints      = 10
)

var pandemicKeywords = []string{"covid-19", "sars-cov-2", "coronavirus", "covid"}

var imagingKeywords = []string{"ct", "x-ray", "chest", "lung", "radiology", "imaging", "radiological"}

var venueKeywords = []string{"radiology", "european radiology", "radiological", "imaging"}

var relevantYears = map[string]bool{
	"2020": true, "2021": true, "2022": true,
	"2023": true, "2024": true, "2025": true,
}

// Score rates a publication's relevance to the project on a 0 to 100
// scale. The function is pure, the same input always yields the same
// score.
func Score(pub types.Publication) int {
	title := strings.ToLower(pub.Title)
	abstract := strings.ToLower(pub.Abstract)
	text := title + " " + abstract

	score := 0

	for _, kw := range pandemicKeywords {
		if strings.Contains(text, kw) {
			score += pandemicPoints
			break
		}
	}

	imagingHits := 0
	for _, kw := range imagingKeywords {
		if strings.Contains(text, kw) {
			imagingHits++
		}
	}
	score += capped(imagingHits*imagingPointsEach, imagingPointsCap)

	authorHits := 0
	for _, known := range knownAuthors {
		lastName := strings.ToLower(strings.Fields(known)[0])
		for _, author := range pub.Authors {
			if strings.Contains(strings.ToLower(author), lastName) {
				authorHits++
				break
			}
		}
	}
	score += capped(authorHits*authorPointsEach, authorPointsCap)

	journal := strings.ToLower(pub.Journal)
	for _, kw := range venueKeywords {
		if strings.Contains(journal, kw) {
			score += venuePoints
			break
		}
	}

	if relevantYears[pub.Year] {
		score += periodPoints
	}

	return capped(score, 100)
}

func capped(v, max int) int {
	if v > max {
		return max
	}
	return v
}
