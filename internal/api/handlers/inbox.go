package handlers

import (
	"bouquet-tour-service/internal/api/dto"
	"bouquet-tour-service/internal/services"
	"net/http"
	"strings"
)

// InboxHandler exposes backlog triage and placement.
type InboxHandler struct {
	Planner *services.Planner
}

func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Planner.Inbox(r.Context())
	if err != nil {
		writeServiceError(w, r, "inbox", err)
		return
	}

	res := dto.InboxResponse{Entries: make([]dto.InboxEntryResponse, 0, len(entries))}
	for _, e := range entries {
		opts := make([]dto.OptionResponse, 0, len(e.Options))
		for _, o := range e.Options {
			opts = append(opts, dto.OptionResponse{
				Kind:       string(o.Kind),
				TourNumber: o.TourNumber,
				DayLabel:   o.DayLabel,
				Peers:      o.Peers,
			})
		}
		if e.Alert {
			res.Alerts++
		}
		res.Entries = append(res.Entries, dto.InboxEntryResponse{
			Client:     toClientSummary(e.Client),
			Zone:       e.Zone,
			IntakeDate: e.IntakeDate,
			WaitDays:   e.WaitDays,
			Alert:      e.Alert,
			Options:    opts,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *InboxHandler) Place(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimSpace(r.PathValue("clientID"))
	if clientID == "" {
		writeError(w, r, http.StatusBadRequest, "client id is required")
		return
	}

	var req dto.PlacementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Planner.PlaceBacklogClient(r.Context(), clientID, req.Option, req.TargetTour); err != nil {
		writeServiceError(w, r, "place backlog client", err)
		return
	}

	res := dto.PlacementResponse{ClientID: clientID, Option: req.Option}
	if req.Option == "graft" {
		res.TargetTour = req.TargetTour
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Special lists the placed mini-tour and individual deliveries.
func (h *InboxHandler) Special(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.Planner.SpecialDeliveries(r.Context())
	if err != nil {
		writeServiceError(w, r, "special deliveries", err)
		return
	}

	res := dto.ListSpecialDeliveriesResponse{Deliveries: make([]dto.SpecialDeliveryResponse, 0, len(deliveries))}
	for _, d := range deliveries {
		clients := make([]dto.ClientSummary, 0, len(d.Clients))
		for _, c := range d.Clients {
			clients = append(clients, toClientSummary(c))
		}
		res.Deliveries = append(res.Deliveries, dto.SpecialDeliveryResponse{
			Kind:      string(d.Kind),
			Zone:      d.Zone,
			RouteLink: d.RouteLink,
			Clients:   clients,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
