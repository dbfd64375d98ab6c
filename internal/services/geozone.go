package services

import (
	"regexp"
	"strings"
)

// OtherZone is the catch-all zone for empty, malformed or unknown postal codes.
const OtherZone = "Other"

// ZoneDefinition names a geographic bucket and the postal-code prefixes it owns.
// A prefix may be a full code ("75001") or a department ("92").
type ZoneDefinition struct {
	Name     string
	Prefixes []string
}

// ZoneClassifier maps postal codes to zones using an ordered table.
// The position of a zone in the table is its sequence rank: centre first,
// periphery last. It is read-only after construction and safe for concurrent use.
type ZoneClassifier struct {
	zones []ZoneDefinition
	rank  map[string]int
}

// DefaultZones is the Paris-region table, ordered centre to periphery.
func DefaultZones() []ZoneDefinition {
	return []ZoneDefinition{
		{Name: "Paris Centre", Prefixes: []string{"75001", "75002", "75003", "75004"}},
		{Name: "Paris Rive Gauche", Prefixes: []string{"75005", "75006", "75007", "75013", "75014", "75015"}},
		{Name: "Paris Ouest", Prefixes: []string{"75008", "75016", "75116", "75017"}},
		{Name: "Paris Nord", Prefixes: []string{"75009", "75010", "75018", "75019"}},
		{Name: "Paris Est", Prefixes: []string{"75011", "75012", "75020"}},
		{Name: "Hauts-de-Seine", Prefixes: []string{"92"}},
		{Name: "Seine-Saint-Denis", Prefixes: []string{"93"}},
		{Name: "Val-de-Marne", Prefixes: []string{"94"}},
		{Name: "Yvelines", Prefixes: []string{"78"}},
		{Name: "Essonne", Prefixes: []string{"91"}},
		{Name: "Val-d'Oise", Prefixes: []string{"95"}},
		{Name: "Seine-et-Marne", Prefixes: []string{"77"}},
	}
}

// NewZoneClassifier builds a classifier from an ordered zone table.
// Zones without a name are skipped; an explicit "Other" entry is ignored
// because Other is always ranked last.
func NewZoneClassifier(zones []ZoneDefinition) *ZoneClassifier {
	zc := &ZoneClassifier{
		zones: make([]ZoneDefinition, 0, len(zones)),
		rank:  make(map[string]int, len(zones)+1),
	}

	for _, z := range zones {
		name := strings.TrimSpace(z.Name)
		if name == "" || name == OtherZone {
			continue
		}
		if _, dup := zc.rank[name]; dup {
			continue
		}

		prefixes := make([]string, 0, len(z.Prefixes))
		for _, p := range z.Prefixes {
			if p = strings.TrimSpace(p); p != "" {
				prefixes = append(prefixes, p)
			}
		}

		zc.rank[name] = len(zc.zones)
		zc.zones = append(zc.zones, ZoneDefinition{Name: name, Prefixes: prefixes})
	}
	zc.rank[OtherZone] = len(zc.zones)

	return zc
}

// Classify returns the zone and sequence rank for a postal code.
// It never fails: anything that is not a known 5-digit code maps to Other.
func (z *ZoneClassifier) Classify(postalCode string) (string, int) {
	code := strings.ReplaceAll(strings.TrimSpace(postalCode), " ", "")
	if !isPostalCode(code) {
		return OtherZone, z.OtherRank()
	}

	for i, def := range z.zones {
		for _, p := range def.Prefixes {
			if strings.HasPrefix(code, p) {
				return def.Name, i
			}
		}
	}

	return OtherZone, z.OtherRank()
}

// Rank returns the sequence rank of a zone name. Unknown names share Other's rank.
func (z *ZoneClassifier) Rank(zone string) int {
	if r, ok := z.rank[zone]; ok {
		return r
	}
	return z.OtherRank()
}

func (z *ZoneClassifier) OtherRank() int { return len(z.zones) }

// Names returns the canonical zone order, Other included.
func (z *ZoneClassifier) Names() []string {
	out := make([]string, 0, len(z.zones)+1)
	for _, def := range z.zones {
		out = append(out, def.Name)
	}
	return append(out, OtherZone)
}

var postalCodePattern = regexp.MustCompile(`\b\d{5}\b`)

// ExtractPostalCode returns the last 5-digit token of a free-text address,
// or "" when the address carries none.
func ExtractPostalCode(address string) string {
	matches := postalCodePattern.FindAllString(address, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}

func isPostalCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
