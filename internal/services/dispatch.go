package services

import (
	"bouquet-tour-service/internal/domain"
	"cmp"
	"slices"
)

const alternativesPerClient = 2

type scoredItem struct {
	item    *domain.Item
	score   int
	reasons []string
}

// DispatchTour proposes items for every client of a tour.
//
// Clients are served in visiting order. Each client gets the best-scoring
// items not already proposed as a primary to an earlier client of the same
// tour; alternatives are not consumed. No inventory status is changed here:
// proposals stay unvalidated until the caller confirms each assignment.
func DispatchTour(tour *domain.Tour, items []*domain.Item, order RouteOrderer) *domain.TourDispatch {
	available := make([]*domain.Item, 0, len(items))
	for _, it := range items {
		if it != nil && it.IsAvailable() {
			available = append(available, it)
		}
	}

	clients := tour.Clients
	if order != nil {
		clients = order(clients)
	}

	consumed := make(map[string]struct{})
	out := &domain.TourDispatch{
		Tour:    tour,
		Clients: make([]domain.ClientDispatch, 0, len(clients)),
	}

	for _, c := range clients {
		candidates := make([]scoredItem, 0, len(available))
		for _, it := range available {
			if _, taken := consumed[it.ID]; taken {
				continue
			}
			score, reasons := ScoreMatch(it, c.Preferences)
			candidates = append(candidates, scoredItem{item: it, score: score, reasons: reasons})
		}

		// Highest score first; item identity breaks ties deterministically.
		slices.SortFunc(candidates, func(a, b scoredItem) int {
			if d := cmp.Compare(b.score, a.score); d != 0 {
				return d
			}
			return cmp.Compare(a.item.ID, b.item.ID)
		})

		need := max(c.ItemsNeeded, 0)
		nPrimary := min(need, len(candidates))
		nAlt := min(alternativesPerClient, len(candidates)-nPrimary)

		cd := domain.ClientDispatch{
			Client:       c,
			Primary:      make([]domain.MatchResult, 0, nPrimary),
			Alternatives: make([]domain.MatchResult, 0, nAlt),
		}
		for _, s := range candidates[:nPrimary] {
			cd.Primary = append(cd.Primary, toMatch(s, c.ID, domain.MatchPrimary))
			consumed[s.item.ID] = struct{}{}
		}
		for _, s := range candidates[nPrimary : nPrimary+nAlt] {
			cd.Alternatives = append(cd.Alternatives, toMatch(s, c.ID, domain.MatchAlternative))
		}
		cd.Complete = len(cd.Primary) == need

		out.Clients = append(out.Clients, cd)
	}

	return out
}

func toMatch(s scoredItem, clientID string, kind domain.MatchKind) domain.MatchResult {
	return domain.MatchResult{
		ItemID:   s.item.ID,
		ClientID: clientID,
		Score:    s.score,
		Reasons:  s.reasons,
		Kind:     kind,
	}
}
