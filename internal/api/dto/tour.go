package dto

import "time"

type TourResponse struct {
	Number      int             `json:"number"`
	DayLabel    string          `json:"day_label"`
	Date        *time.Time      `json:"date"`
	Zones       []string        `json:"zones"`
	ClientCount int             `json:"client_count"`
	ItemCount   int             `json:"item_count"`
	RouteLink   string          `json:"route_link"`
	Clients     []ClientSummary `json:"clients"`
}

type ListToursResponse struct {
	Tours []TourResponse `json:"tours"`
}
