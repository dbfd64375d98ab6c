package handlers

import (
	"bouquet-tour-service/internal/api/dto"
	"bouquet-tour-service/internal/services"
	"net/http"
	"strconv"
)

// TourHandler exposes the planned tours and their dispatch proposals.
type TourHandler struct {
	Planner *services.Planner
}

func (h *TourHandler) List(w http.ResponseWriter, r *http.Request) {
	tours, err := h.Planner.PlanTours(r.Context())
	if err != nil {
		writeServiceError(w, r, "plan tours", err)
		return
	}

	res := dto.ListToursResponse{Tours: make([]dto.TourResponse, 0, len(tours))}
	for _, t := range tours {
		res.Tours = append(res.Tours, toTourResponse(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Dispatch proposes items for every client of the tour named in the path.
// Proposals are not persisted; each one must be confirmed through /assignments.
func (h *TourHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		writeError(w, r, http.StatusBadRequest, "tour number must be a positive integer")
		return
	}

	d, err := h.Planner.DispatchForTour(r.Context(), number)
	if err != nil {
		writeServiceError(w, r, "dispatch tour", err)
		return
	}

	res := dto.TourDispatchResponse{
		Number:    d.Tour.Number,
		DayLabel:  d.Tour.DayLabel,
		RouteLink: d.Tour.RouteLink,
		Clients:   make([]dto.ClientDispatchResponse, 0, len(d.Clients)),
	}
	for _, cd := range d.Clients {
		res.Clients = append(res.Clients, dto.ClientDispatchResponse{
			Client:       toClientSummary(cd.Client),
			Primary:      toMatches(cd.Primary),
			Alternatives: toMatches(cd.Alternatives),
			Complete:     cd.Complete,
			Validated:    cd.Validated,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
