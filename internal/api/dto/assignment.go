package dto

// AssignmentRequest confirms item_id for client_id. When the item is taken,
// fallback_item_ids are tried in order before reporting a conflict.
type AssignmentRequest struct {
	ClientID        string   `json:"client_id" validate:"required"`
	ItemID          string   `json:"item_id" validate:"required"`
	FallbackItemIDs []string `json:"fallback_item_ids" validate:"omitempty,max=10,dive,required"`
}

type AssignmentResponse struct {
	ClientID  string `json:"client_id"`
	ItemID    string `json:"item_id"`
	Confirmed bool   `json:"confirmed"`
	Conflict  bool   `json:"conflict"`
}
