package dto

type ItemResponse struct {
	ItemID     string   `json:"item_id"`
	Name       string   `json:"name"`
	Colors     []string `json:"colors"`
	Style      string   `json:"style"`
	Size       string   `json:"size"`
	Status     string   `json:"status"`
	AssignedTo string   `json:"assigned_to,omitempty"`
}

type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
}
