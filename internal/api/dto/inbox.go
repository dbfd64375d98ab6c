package dto

import "time"

type OptionResponse struct {
	Kind       string `json:"kind"`
	TourNumber int    `json:"tour_number,omitempty"`
	DayLabel   string `json:"day_label,omitempty"`
	Peers      int    `json:"peers,omitempty"`
}

type InboxEntryResponse struct {
	Client     ClientSummary    `json:"client"`
	Zone       string           `json:"zone"`
	IntakeDate time.Time        `json:"intake_date"`
	WaitDays   int              `json:"wait_days"`
	Alert      bool             `json:"alert"`
	Options    []OptionResponse `json:"options"`
}

type InboxResponse struct {
	Entries []InboxEntryResponse `json:"entries"`
	Alerts  int                  `json:"alerts"`
}

type PlacementRequest struct {
	Option     string `json:"option" validate:"required,oneof=graft mini_tour individual"`
	TargetTour *int   `json:"target_tour" validate:"omitempty,min=1"`
}

type PlacementResponse struct {
	ClientID   string `json:"client_id"`
	Option     string `json:"option"`
	TargetTour *int   `json:"target_tour,omitempty"`
}

type SpecialDeliveryResponse struct {
	Kind      string          `json:"kind"`
	Zone      string          `json:"zone"`
	RouteLink string          `json:"route_link"`
	Clients   []ClientSummary `json:"clients"`
}

type ListSpecialDeliveriesResponse struct {
	Deliveries []SpecialDeliveryResponse `json:"deliveries"`
}
