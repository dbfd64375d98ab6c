package handlers

import (
	"bouquet-tour-service/internal/api/dto"
	"bouquet-tour-service/internal/domain"
	"bouquet-tour-service/internal/ports"
	"net/http"
	"strings"
)

// ItemHandler exposes read-only inventory retrieval.
type ItemHandler struct {
	Repo ports.InventoryRepository
}

// List returns every item, or only those with ?status=Available|Assigned.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var status domain.ItemStatus
	switch s := strings.TrimSpace(r.URL.Query().Get("status")); {
	case s == "":
	case strings.EqualFold(s, string(domain.ItemAvailable)):
		status = domain.ItemAvailable
	case strings.EqualFold(s, string(domain.ItemAssigned)):
		status = domain.ItemAssigned
	default:
		writeError(w, r, http.StatusBadRequest, "status must be Available or Assigned")
		return
	}

	items, err := h.Repo.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, r, "list items", err)
		return
	}

	res := dto.ListItemsResponse{Items: make([]dto.ItemResponse, 0, len(items))}
	for _, it := range items {
		if status != "" && it.Status != status {
			continue
		}
		res.Items = append(res.Items, dto.ItemResponse{
			ItemID:     it.ID,
			Name:       it.Name,
			Colors:     orEmpty(it.Colors),
			Style:      it.Style,
			Size:       it.Size,
			Status:     string(it.Status),
			AssignedTo: it.AssignedTo,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
