package dto

type MatchResponse struct {
	ItemID  string   `json:"item_id"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

type ClientDispatchResponse struct {
	Client       ClientSummary   `json:"client"`
	Primary      []MatchResponse `json:"primary"`
	Alternatives []MatchResponse `json:"alternatives"`
	Complete     bool            `json:"complete"`
	Validated    bool            `json:"validated"`
}

type TourDispatchResponse struct {
	Number    int                      `json:"number"`
	DayLabel  string                   `json:"day_label"`
	RouteLink string                   `json:"route_link"`
	Clients   []ClientDispatchResponse `json:"clients"`
}
