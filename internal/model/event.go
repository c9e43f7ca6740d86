package model

// AttendanceEventType distinguishes the two mutation paths.
type AttendanceEventType string

const (
	EventUpsert    AttendanceEventType = "attendance.upsert"
	EventBulkWrite AttendanceEventType = "attendance.bulk_write"
)

// AttendanceEvent is the payload published to a class's live channel
// after a successful attendance mutation.
type AttendanceEvent struct {
	Type      AttendanceEventType `json:"type"`
	ClassID   int                 `json:"class_id"`
	StudentID int                 `json:"student_id,omitempty"`
	Date      string              `json:"date"`
	Status    AttendanceStatus    `json:"status"`
	Count     int                 `json:"count"`
}
