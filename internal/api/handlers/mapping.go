package handlers

import (
	"bouquet-tour-service/internal/api/dto"
	"bouquet-tour-service/internal/domain"
)

func toClientSummary(c *domain.Client) dto.ClientSummary {
	return dto.ClientSummary{
		ClientID:    c.ID,
		Name:        c.Name,
		Address:     c.Address,
		PostalCode:  c.PostalCode,
		Zone:        c.Zone,
		ItemsNeeded: c.ItemsNeeded,
	}
}

func toTourResponse(t *domain.Tour) dto.TourResponse {
	res := dto.TourResponse{
		Number:      t.Number,
		DayLabel:    t.DayLabel,
		Date:        t.Date,
		Zones:       t.Zones,
		ClientCount: t.Size(),
		ItemCount:   t.ItemCount(),
		RouteLink:   t.RouteLink,
		Clients:     make([]dto.ClientSummary, 0, len(t.Clients)),
	}
	if res.Zones == nil {
		res.Zones = []string{}
	}
	for _, c := range t.Clients {
		res.Clients = append(res.Clients, toClientSummary(c))
	}
	return res
}

func toMatches(ms []domain.MatchResult) []dto.MatchResponse {
	out := make([]dto.MatchResponse, 0, len(ms))
	for _, m := range ms {
		reasons := m.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		out = append(out, dto.MatchResponse{ItemID: m.ItemID, Score: m.Score, Reasons: reasons})
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
