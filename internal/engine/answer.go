package engine

import (
	"fmt"
	"strings"

	"github.com/randytsao24/fuelfinder/internal/models"
)

// composeAnswer builds a targeted amenity answer: when the utterance names
// exactly one amenity category, only that category is reported; otherwise
// all three are.
func composeAnswer(stationName, text string, detail models.AmenityDetail) string {
	lower := strings.ToLower(text)

	wantFood := strings.Contains(lower, "food")
	wantShowers := strings.Contains(lower, "shower")
	wantParking := strings.Contains(lower, "park")

	mentioned := 0
	for _, want := range []bool{wantFood, wantShowers, wantParking} {
		if want {
			mentioned++
		}
	}
	if mentioned != 1 {
		wantFood, wantShowers, wantParking = true, true, true
	}

	var parts []string
	if wantParking {
		parts = append(parts, fmt.Sprintf("Parking: %s of %s spots open (%s reserved available)",
			detail.Parking.Available, detail.Parking.Total, detail.Parking.ReservedAvailable))
	}
	if wantShowers {
		parts = append(parts, fmt.Sprintf("Showers available: %s", detail.Showers.Available))
	}
	if wantFood {
		parts = append(parts, fmt.Sprintf("Food options: %s", detail.FoodOptions))
	}

	return stationName + " — " + strings.Join(parts, ". ") + "."
}

// extractPlace pulls a trailing place phrase out of free text, e.g.
// "truck stop in Chicago" -> "Chicago". The last "in"/"near" wins. Anything
// smarter than this belongs to the language layer in front of the engine.
func extractPlace(text string) string {
	words := strings.Fields(text)
	for i := len(words) - 1; i >= 0; i-- {
		w := strings.ToLower(words[i])
		if (w == "in" || w == "near") && i < len(words)-1 {
			place := strings.Trim(strings.Join(words[i+1:], " "), " ?!.,")
			// "near me" / "in here" mean the caller's own GPS, not a place.
			switch strings.ToLower(place) {
			case "me", "here":
				return ""
			}
			return place
		}
	}
	return ""
}
