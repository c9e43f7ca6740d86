package model

import "time"

// Class represents a school class group, optionally owned by a homeroom teacher.
type Class struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	TeacherID *int      `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassDetail is the class identity plus homeroom teacher, as annotated
// on attendance reports.
type ClassDetail struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Teacher *TeacherRef `json:"teacher,omitempty"`
}

// RosterStudent is one member of a class roster. The roster is always
// ordered by student name ascending (ties broken by id) so report rows
// come out deterministic.
type RosterStudent struct {
	ID     int        `json:"id"`
	NISN   string     `json:"nisn"`
	Name   string     `json:"name"`
	Parent *ParentRef `json:"parent,omitempty"`
}

// CreateClassRequest is the payload for creating or updating a class.
type CreateClassRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	TeacherID *int   `json:"teacher_id" binding:"omitempty"`
}

// ClassMemberRequest is the payload for adding a student to a class roster.
type ClassMemberRequest struct {
	StudentID int `json:"student_id" binding:"required"`
}
