package handlers

import (
	"bouquet-tour-service/internal/api/dto"
	"bouquet-tour-service/internal/ports"
	"net/http"
)

// ClientHandler exposes read-only client retrieval.
type ClientHandler struct {
	Repo ports.ClientRepository
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Repo.ListActiveClients(r.Context())
	if err != nil {
		writeServiceError(w, r, "list clients", err)
		return
	}

	res := dto.ListClientsResponse{
		Clients: make([]dto.ClientResponse, 0, len(clients)),
	}
	for _, c := range clients {
		res.Clients = append(res.Clients, dto.ClientResponse{
			ClientID:    c.ID,
			Name:        c.Name,
			Address:     c.Address,
			PostalCode:  c.PostalCode,
			ItemsNeeded: c.ItemsNeeded,
			Preferences: dto.PreferencesResponse{
				Colors: orEmpty(c.Preferences.Colors),
				Style:  c.Preferences.Style,
				Sizes:  orEmpty(c.Preferences.Sizes),
			},
			HasPreferences: c.Preferences.HasPreferences(),
			CreatedAt:      c.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
