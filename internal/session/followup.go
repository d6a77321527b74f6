package session

import (
	"strings"
	"unicode"
)

// Amenity words mark an utterance as being about the current station;
// action words mark it as a request for a new search. Both lists are checked
// so "find a station with parking" is not mistaken for a follow-up.
// Matching is on whole words: "showers" must not trip the "show" action word.
var (
	amenityKeywords = map[string]bool{
		"parking": true, "park": true, "shower": true, "showers": true,
		"food": true, "amenities": true, "amenity": true,
	}
	actionKeywords = map[string]bool{
		"find": true, "search": true, "look": true, "get": true,
		"show": true, "where": true, "which": true, "locate": true,
	}
)

// IsFollowUp reports whether an utterance refers to amenities of the most
// recently presented station rather than requesting a new search.
func IsFollowUp(text string) bool {
	words := tokenize(text)

	mentionsAmenity := false
	for _, w := range words {
		if amenityKeywords[w] {
			mentionsAmenity = true
			break
		}
	}
	if !mentionsAmenity {
		return false
	}

	for _, w := range words {
		if actionKeywords[w] {
			return false
		}
	}
	return true
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
