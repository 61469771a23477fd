package tree

type TogglePayload struct {
	ItemID string `json:"itemId" validate:"required"`
}
