package model

import "time"

// Parent represents a parent/guardian profile linked to a PARENT user account.
type Parent struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"` // From the linked user row
	NoTelp    string    `json:"no_telp"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParentRef is the minimal parent identity embedded in reports.
type ParentRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateParentRequest is the payload for creating a parent profile.
type CreateParentRequest struct {
	UserID  int    `json:"user_id" binding:"required"`
	NoTelp  string `json:"no_telp" binding:"omitempty,max=20"`
	Address string `json:"address" binding:"omitempty,max=255"`
}

// UpdateParentRequest is the payload for updating a parent profile.
type UpdateParentRequest struct {
	NoTelp  string `json:"no_telp" binding:"omitempty,max=20"`
	Address string `json:"address" binding:"omitempty,max=255"`
}
