package services

import (
	"bouquet-tour-service/internal/domain"
	"fmt"
	"math"
	"strings"
)

// Attribute weights. Unexpressed attributes earn half their weight.
const (
	colorWeight = 40
	styleWeight = 35
	sizeWeight  = 25

	colorPerMatch      = 20
	partialStyleCredit = 10
	partialSizeCredit  = 10

	neutralScore = 50
)

// ScoreMatch computes a 0-100 compatibility score between an item and a
// client's preferences, with human-readable reasons.
//
// Expressed attributes score against their full weight. Unexpressed ones earn
// a flat half-credit while their weight still counts in the denominator, so an
// item is not penalised for a preference the client never stated. A client
// with no preferences at all scores exactly 50 against any item.
func ScoreMatch(item *domain.Item, prefs domain.Preferences) (int, []string) {
	wantedColors := canonicalSet(prefs.Colors, CanonicalColor)
	wantedStyle := CanonicalStyle(prefs.Style)
	wantedSizes := canonicalSet(prefs.Sizes, CanonicalSize)

	if len(wantedColors) == 0 && wantedStyle == "" && len(wantedSizes) == 0 {
		return neutralScore, []string{"no stated preference"}
	}

	var acc, denom int
	reasons := make([]string, 0, 3)

	// Colors.
	denom += colorWeight
	if len(wantedColors) > 0 {
		matched := intersect(canonicalSet(item.Colors, CanonicalColor), wantedColors)
		acc += min(colorWeight, colorPerMatch*len(matched))
		if len(matched) > 0 {
			reasons = append(reasons, "colors: "+strings.Join(matched, ", "))
		}
	} else {
		acc += colorWeight / 2
	}

	// Style.
	denom += styleWeight
	if wantedStyle != "" {
		have := CanonicalStyle(item.Style)
		switch {
		case have == "":
		case have == wantedStyle || strings.Contains(have, wantedStyle) || strings.Contains(wantedStyle, have):
			acc += styleWeight
			reasons = append(reasons, "style: "+have)
		default:
			// Styles are not mutually exclusive.
			acc += partialStyleCredit
			reasons = append(reasons, fmt.Sprintf("style: compatible (%s)", have))
		}
	} else {
		acc += styleWeight / 2
	}

	// Size.
	denom += sizeWeight
	if len(wantedSizes) > 0 {
		have := CanonicalSize(item.Size)
		// Any size mismatch, an untagged item included, keeps a partial credit.
		switch {
		case have == "":
			acc += partialSizeCredit
			reasons = append(reasons, "size: unknown")
		case contains(wantedSizes, have):
			acc += sizeWeight
			reasons = append(reasons, "size: "+have)
		default:
			acc += partialSizeCredit
			reasons = append(reasons, fmt.Sprintf("size: different (%s)", have))
		}
	} else {
		acc += sizeWeight / 2
	}

	score := int(math.Round(100 * float64(acc) / float64(denom)))
	return max(0, min(100, score)), reasons
}

func intersect(have, wanted []string) []string {
	out := make([]string, 0, len(wanted))
	for _, w := range wanted {
		if contains(have, w) {
			out = append(out, w)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
