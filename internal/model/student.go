package model

import "time"

// Gender represents the student's gender.
type Gender string

const (
	GenderMale   Gender = "Laki-laki"
	GenderFemale Gender = "Perempuan"
)

// Student represents a student. A student belongs to at most one parent
// and is linked to classes through the student_classes membership table.
type Student struct {
	ID        int       `json:"id"`
	NISN      string    `json:"nisn"`
	Name      string    `json:"name"`
	Gender    Gender    `json:"gender"`
	NoTelp    string    `json:"no_telp"`
	ParentID  *int      `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentRef is the minimal student identity embedded in reports.
type StudentRef struct {
	ID   int    `json:"id"`
	NISN string `json:"nisn"`
	Name string `json:"name"`
}

// StudentIdentity is a student plus their parent identity, as embedded
// in attendance report payloads.
type StudentIdentity struct {
	ID     int        `json:"id"`
	NISN   string     `json:"nisn"`
	Name   string     `json:"name"`
	Parent *ParentRef `json:"parent,omitempty"`
}

// CreateStudentRequest is the payload for creating a new student.
type CreateStudentRequest struct {
	NISN     string `json:"nisn" binding:"required,min=4,max=20"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Gender   Gender `json:"gender" binding:"required,oneof=Laki-laki Perempuan"`
	NoTelp   string `json:"no_telp" binding:"omitempty,max=20"`
	ParentID *int   `json:"parent_id" binding:"omitempty"`
}

// UpdateStudentRequest is the payload for updating an existing student.
type UpdateStudentRequest struct {
	NISN     string `json:"nisn" binding:"required,min=4,max=20"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Gender   Gender `json:"gender" binding:"required,oneof=Laki-laki Perempuan"`
	NoTelp   string `json:"no_telp" binding:"omitempty,max=20"`
	ParentID *int   `json:"parent_id" binding:"omitempty"`
}
