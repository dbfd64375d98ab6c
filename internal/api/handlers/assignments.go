package handlers

import (
	"bouquet-tour-service/internal/api/dto"
	"bouquet-tour-service/internal/domain"
	"bouquet-tour-service/internal/services"
	"net/http"
)

type AssignmentHandler struct {
	Planner *services.Planner
}

// Confirm assigns one item to one client. Losing the item to a concurrent
// confirmation answers 409 with the outcome body so the caller can retry
// with an alternative.
func (h *AssignmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		outcome domain.AssignmentOutcome
		err     error
	)
	if len(req.FallbackItemIDs) > 0 {
		candidates := append([]string{req.ItemID}, req.FallbackItemIDs...)
		outcome, err = h.Planner.ConfirmWithFallback(r.Context(), req.ClientID, candidates)
	} else {
		outcome, err = h.Planner.ConfirmAssignment(r.Context(), req.ClientID, req.ItemID)
	}
	if err != nil {
		writeServiceError(w, r, "confirm assignment", err)
		return
	}

	res := dto.AssignmentResponse{
		ClientID:  outcome.ClientID,
		ItemID:    outcome.ItemID,
		Confirmed: outcome.Confirmed,
		Conflict:  outcome.Conflict,
	}

	status := http.StatusOK
	if outcome.Conflict {
		status = http.StatusConflict
	}
	writeJSON(w, r, status, res)
}
