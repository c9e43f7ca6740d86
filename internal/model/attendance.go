package model

import "time"

// DateLayout is the wire format for attendance dates (ISO calendar date,
// no time component).
const DateLayout = "2006-01-02"

// AttendanceStatus is the status recorded for one student on one day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusLate    AttendanceStatus = "LATE"
	StatusHoliday AttendanceStatus = "HOLIDAY"
)

// Valid reports whether the status is one of the four known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHoliday:
		return true
	}
	return false
}

// AttendanceRecord is one persisted attendance row. At most one record
// exists per (student_id, class_id, date); the table enforces this with
// a unique constraint.
type AttendanceRecord struct {
	ID        int              `json:"id"`
	StudentID int              `json:"student_id"`
	ClassID   int              `json:"class_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ────────────────────────────────────────────────────────────────────────────
// Report payloads. Reconciliation fills days without a persisted record
// with ABSENT; that default is report-only and never written back here.
// ────────────────────────────────────────────────────────────────────────────

// DayStatus is one reconciled (date, status) cell.
type DayStatus struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
}

// DailyRow is one student's reconciled status for a single day.
type DailyRow struct {
	No      int              `json:"no"`
	Student StudentRef       `json:"student"`
	Status  AttendanceStatus `json:"status"`
	Date    string           `json:"date"`
}

// DailyReport is the whole-class view for one day.
type DailyReport struct {
	Date              string      `json:"date"`
	Class             ClassDetail `json:"class"`
	StudentAttendance []DailyRow  `json:"student_attendance"`
}

// StudentTimeline is one student's reconciled statuses across a window,
// in chronological order.
type StudentTimeline struct {
	Student    StudentIdentity `json:"student"`
	Attendance []DayStatus     `json:"attendance"`
}

// WeeklyReport is the whole-class view for one Monday–Saturday window.
type WeeklyReport struct {
	Class    ClassDetail       `json:"class"`
	Dates    DateRange         `json:"dates"`
	Students []StudentTimeline `json:"students"`
}

// DateRange marks the first and last day of a report window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PresenceSummary aggregates one student's window. ValidDays excludes
// HOLIDAY dates; Percentage is 0 when ValidDays is 0 by definition.
type PresenceSummary struct {
	PresentCount int     `json:"present_count"`
	ValidDays    int     `json:"valid_days"`
	Percentage   float64 `json:"percentage_present"`
}

// StudentWeeklyReport is the single-student view for one window.
type StudentWeeklyReport struct {
	Week        int             `json:"week"`
	Student     StudentIdentity `json:"student"`
	Class       ClassDetail     `json:"class"`
	Dates       DateRange       `json:"dates"`
	Attendances []DayStatus     `json:"attendances"`
	Summary     PresenceSummary `json:"summary"`
}

// StudentMonthlyReport groups the four fixed weekly reports of a month.
type StudentMonthlyReport struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Weeks []StudentWeeklyReport `json:"weeks"`
}

// AppliedRecord is one row written by the bulk status writer.
type AppliedRecord struct {
	Student StudentRef       `json:"student"`
	Status  AttendanceStatus `json:"status"`
	Date    string           `json:"date"`
	Created bool             `json:"created"` // false when an existing row was updated
}

// BulkWriteResult is returned by the class-wide status writer.
type BulkWriteResult struct {
	Class          ClassDetail      `json:"class"`
	Date           string           `json:"date"`
	Status         AttendanceStatus `json:"status"`
	AppliedRecords []AppliedRecord  `json:"applied_records"`
	Unchanged      int              `json:"unchanged"`
}

// AttendanceDetail is a single attendance row enriched with display
// identity, returned by the single upsert.
type AttendanceDetail struct {
	Status  AttendanceStatus `json:"status"`
	Date    string           `json:"date"`
	Student StudentRef       `json:"student"`
	Parent  *ParentRef       `json:"parent"`
	Class   ClassDetail      `json:"class"`
}

// ────────────────────────────────────────────────────────────────────────────
// Request payloads
// ────────────────────────────────────────────────────────────────────────────

// DailyReportRequest asks for the reconciled class view of one day.
type DailyReportRequest struct {
	ClassID int    `json:"class_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
}

// WeeklyReportRequest asks for the reconciled class view of one week.
type WeeklyReportRequest struct {
	ClassID int `json:"class_id" binding:"required"`
	Year    int `json:"year" binding:"required"`
	Month   int `json:"month" binding:"required"`
	Week    int `json:"week" binding:"required"`
}

// StudentWeeklyReportRequest asks for one student's week.
type StudentWeeklyReportRequest struct {
	ClassID   int `json:"class_id" binding:"required"`
	StudentID int `json:"student_id" binding:"required"`
	Year      int `json:"year" binding:"required"`
	Month     int `json:"month" binding:"required"`
	Week      int `json:"week" binding:"required"`
}

// StudentMonthlyReportRequest asks for one student's fixed four weeks.
type StudentMonthlyReportRequest struct {
	ClassID   int `json:"class_id" binding:"required"`
	StudentID int `json:"student_id" binding:"required"`
	Year      int `json:"year" binding:"required"`
	Month     int `json:"month" binding:"required"`
}

// UpsertAttendanceRequest creates or updates one attendance row.
type UpsertAttendanceRequest struct {
	ClassID   int              `json:"class_id" binding:"required"`
	StudentID int              `json:"student_id" binding:"required"`
	Date      string           `json:"date" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=PRESENT ABSENT LATE HOLIDAY"`
}

// BulkStatusRequest marks the whole class with one status for one day.
type BulkStatusRequest struct {
	ClassID int    `json:"class_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
}
