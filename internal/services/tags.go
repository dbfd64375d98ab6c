package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Catalogue vocabulary is partly French; fold it onto one canonical tag set.
var colorAliases = map[string]string{
	"rouge":  "red",
	"blanc":  "white",
	"rose":   "pink",
	"vert":   "green",
	"jaune":  "yellow",
	"violet": "purple",
	"bleu":   "blue",
	"noir":   "black",
}

var styleAliases = map[string]string{
	"bucolique": "bucolic",
	"moderne":   "modern",
	"colore":    "colorful",
	"classique": "classic",
}

var sizeAliases = map[string]string{
	"s":           "small",
	"m":           "medium",
	"l":           "large",
	"xl":          "largest",
	"petit":       "small",
	"moyen":       "medium",
	"grand":       "large",
	"masterpiece": "largest",
}

// foldTag lowercases s and strips diacritics ("Coloré" -> "colore").
func foldTag(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Chains keep internal state, so one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

func canonical(aliases map[string]string, s string) string {
	f := foldTag(s)
	if c, ok := aliases[f]; ok {
		return c
	}
	return f
}

func CanonicalColor(s string) string { return canonical(colorAliases, s) }
func CanonicalStyle(s string) string { return canonical(styleAliases, s) }
func CanonicalSize(s string) string  { return canonical(sizeAliases, s) }

// canonicalSet maps tags through fn, dropping blanks and duplicates
// while keeping first-seen order.
func canonicalSet(tags []string, fn func(string) string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		c := fn(t)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
