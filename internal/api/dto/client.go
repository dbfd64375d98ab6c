package dto

import "time"

type PreferencesResponse struct {
	Colors []string `json:"colors"`
	Style  string   `json:"style"`
	Sizes  []string `json:"sizes"`
}

type ClientResponse struct {
	ClientID       string              `json:"client_id"`
	Name           string              `json:"name"`
	Address        string              `json:"address"`
	PostalCode     string              `json:"postal_code"`
	ItemsNeeded    int                 `json:"items_needed"`
	Preferences    PreferencesResponse `json:"preferences"`
	HasPreferences bool                `json:"has_preferences"`
	CreatedAt      time.Time           `json:"created_at"`
}

type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// ClientSummary is the compact client view embedded in tours, dispatch and inbox payloads.
type ClientSummary struct {
	ClientID    string `json:"client_id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PostalCode  string `json:"postal_code"`
	Zone        string `json:"zone"`
	ItemsNeeded int    `json:"items_needed"`
}
