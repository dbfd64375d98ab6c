package services

import (
	"bouquet-tour-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreMatchNoPreferenceIsNeutral(t *testing.T) {
	items := []*domain.Item{
		{ID: "i1"},
		{ID: "i2", Colors: []string{"Rouge"}, Style: "Classique", Size: "L"},
	}
	for _, prefs := range []domain.Preferences{
		{},
		{Colors: []string{"", "  "}, Style: " ", Sizes: []string{""}},
	} {
		for _, it := range items {
			score, reasons := ScoreMatch(it, prefs)
			assert.Equal(t, 50, score)
			assert.Equal(t, []string{"no stated preference"}, reasons)
		}
	}
}

func TestScoreMatchSingleColorOverlap(t *testing.T) {
	prefs := domain.Preferences{Colors: []string{"Red", "White"}, Style: "Classic", Sizes: []string{"M"}}
	item := &domain.Item{ID: "i1", Colors: []string{"Red"}, Style: "Classic", Size: "M"}

	score, reasons := ScoreMatch(item, prefs)

	// One matching color earns 20 of 40.
	assert.Equal(t, 80, score)
	assert.Equal(t, []string{"colors: red", "style: classic", "size: medium"}, reasons)
}

func TestScoreMatchFullMatch(t *testing.T) {
	prefs := domain.Preferences{Colors: []string{"Rouge", "Blanc"}, Style: "Classique", Sizes: []string{"Moyen"}}
	item := &domain.Item{ID: "i1", Colors: []string{"red", "WHITE"}, Style: "classic", Size: "M"}

	score, _ := ScoreMatch(item, prefs)
	assert.Equal(t, 100, score)
}

func TestScoreMatchPartialCredits(t *testing.T) {
	prefs := domain.Preferences{Style: "Moderne", Sizes: []string{"S"}}
	item := &domain.Item{ID: "i1", Colors: []string{"Vert"}, Style: "Bucolique", Size: "Grand"}

	score, reasons := ScoreMatch(item, prefs)

	// 20 (colors unstated) + 10 + 10 over 100.
	assert.Equal(t, 40, score)
	assert.Equal(t, []string{"style: compatible (bucolic)", "size: different (large)"}, reasons)
}

func TestScoreMatchEmptyItemTags(t *testing.T) {
	prefs := domain.Preferences{Colors: []string{"Rose"}, Style: "Coloré", Sizes: []string{"XL"}}

	score, reasons := ScoreMatch(&domain.Item{ID: "bare"}, prefs)

	// Only the size mismatch credit survives an untagged item.
	assert.Equal(t, 10, score)
	assert.Equal(t, []string{"size: unknown"}, reasons)
}

func TestScoreMatchUntaggedSizeStillEarnsCredit(t *testing.T) {
	score, reasons := ScoreMatch(&domain.Item{ID: "i1"}, domain.Preferences{Sizes: []string{"M"}})

	// 20 + 17 half credits, plus 10 for the size mismatch.
	assert.Equal(t, 47, score)
	assert.Equal(t, []string{"size: unknown"}, reasons)
}

func TestScoreMatchUnstatedAttributesEarnHalfCredit(t *testing.T) {
	prefs := domain.Preferences{Colors: []string{"pink"}}
	item := &domain.Item{ID: "i1", Colors: []string{"Rose"}}

	score, reasons := ScoreMatch(item, prefs)

	// 20 + 17 + 12 over 100.
	assert.Equal(t, 49, score)
	assert.Equal(t, []string{"colors: pink"}, reasons)
}

func TestScoreMatchBounded(t *testing.T) {
	colors := [][]string{nil, {"red"}, {"red", "white", "pink", "green"}, {"bleu", "noir"}}
	styles := []string{"", "classic", "modern", "colorful bucolic"}
	sizes := [][]string{nil, {"S"}, {"M", "L", "XL"}}

	for _, pc := range colors {
		for _, ps := range styles {
			for _, pz := range sizes {
				prefs := domain.Preferences{Colors: pc, Style: ps, Sizes: pz}
				for _, ic := range colors {
					for _, is := range styles {
						for _, iz := range []string{"", "S", "Masterpiece"} {
							score, _ := ScoreMatch(&domain.Item{Colors: ic, Style: is, Size: iz}, prefs)
							assert.GreaterOrEqual(t, score, 0)
							assert.LessOrEqual(t, score, 100)
						}
					}
				}
			}
		}
	}
}

func TestCanonicalTags(t *testing.T) {
	assert.Equal(t, "colorful", CanonicalStyle(" Coloré "))
	assert.Equal(t, "largest", CanonicalSize("masterpiece"))
	assert.Equal(t, "white", CanonicalColor("BLANC"))
	assert.Equal(t, "orange", CanonicalColor("Orange"))
	assert.Equal(t, []string{"red", "white"}, canonicalSet([]string{"Rouge", "red", "", "Blanc"}, CanonicalColor))
}
