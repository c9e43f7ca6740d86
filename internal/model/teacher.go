package model

import "time"

// Teacher represents a teacher profile linked to a TEACHER user account.
type Teacher struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"` // From the linked user row
	NIP       string    `json:"nip"`
	NoTelp    string    `json:"no_telp"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeacherRef is the minimal teacher identity embedded in reports.
type TeacherRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateTeacherRequest is the payload for creating a teacher profile.
type CreateTeacherRequest struct {
	UserID  int    `json:"user_id" binding:"required"`
	NIP     string `json:"nip" binding:"required,min=4,max=30"`
	NoTelp  string `json:"no_telp" binding:"omitempty,max=20"`
	Address string `json:"address" binding:"omitempty,max=255"`
}

// UpdateTeacherRequest is the payload for updating a teacher profile.
type UpdateTeacherRequest struct {
	NIP     string `json:"nip" binding:"required,min=4,max=30"`
	NoTelp  string `json:"no_telp" binding:"omitempty,max=20"`
	Address string `json:"address" binding:"omitempty,max=255"`
}
