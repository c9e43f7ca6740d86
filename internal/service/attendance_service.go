package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/calendar"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// Attendance domain errors.
var (
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrEmptyRoster     = errors.New("class has no students, add students first")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidStatus   = errors.New("invalid attendance status")
	ErrInvalidPeriod   = errors.New("invalid year, month, or week")
	ErrBulkWrite       = errors.New("bulk attendance write failed")
)

// ClassStore is the class/roster access the engine needs.
type ClassStore interface {
	GetDetail(ctx context.Context, id int) (*model.ClassDetail, error)
	GetRoster(ctx context.Context, classID int) ([]model.RosterStudent, error)
}

// StudentStore is the student identity access the engine needs.
type StudentStore interface {
	GetWithParent(ctx context.Context, id int) (*model.StudentIdentity, error)
}

// AttendanceStore is the attendance row access the engine needs.
// ApplyBatch must be all-or-nothing: a failure leaves no row changed.
type AttendanceStore interface {
	GetByKey(ctx context.Context, studentID, classID int, date time.Time) (*model.AttendanceRecord, error)
	ListByClassAndDate(ctx context.Context, classID int, date time.Time) ([]model.AttendanceRecord, error)
	ListByClassBetween(ctx context.Context, classID int, start, end time.Time) ([]model.AttendanceRecord, error)
	ListByStudentBetween(ctx context.Context, studentID, classID int, start, end time.Time) ([]model.AttendanceRecord, error)
	Create(ctx context.Context, rec *model.AttendanceRecord) error
	UpdateStatus(ctx context.Context, id int, date time.Time, status model.AttendanceStatus) error
	ApplyBatch(ctx context.Context, inserts, updates []model.AttendanceRecord) error
}

// Notifier fans out attendance mutations to live subscribers. May be nil.
type Notifier interface {
	PublishAttendance(ctx context.Context, event model.AttendanceEvent)
}

// AttendanceService is the attendance reconciliation and reporting
// engine. Report reads are pure: days without a persisted record are
// reported as ABSENT but never written back. Writes happen only through
// UpsertAttendance and SetClassStatusForDate.
type AttendanceService struct {
	classes     ClassStore
	students    StudentStore
	attendances AttendanceStore
	notifier    Notifier
	log         zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(classes ClassStore, students StudentStore, attendances AttendanceStore, notifier Notifier, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		classes:     classes,
		students:    students,
		attendances: attendances,
		notifier:    notifier,
		log:         log.With().Str("component", "attendance_service").Logger(),
	}
}

// attKey identifies one reconciliation cell. Keyed on a value struct
// with a normalized day rather than a formatted date string.
type attKey struct {
	studentID int
	day       time.Time
}

// parseDate parses and normalizes an ISO calendar date.
func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return calendar.Day(t), nil
}

func (s *AttendanceService) classDetail(ctx context.Context, classID int) (*model.ClassDetail, error) {
	cd, err := s.classes.GetDetail(ctx, classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("load class %d: %w", classID, err)
	}
	return cd, nil
}

func (s *AttendanceService) studentIdentity(ctx context.Context, studentID int) (*model.StudentIdentity, error) {
	si, err := s.students.GetWithParent(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("load student %d: %w", studentID, err)
	}
	return si, nil
}

// DailyClassReport reconciles the full roster of a class against the
// persisted records of one day. Students without a record are reported
// ABSENT. Rows follow roster order (name ascending, id tie-break).
func (s *AttendanceService) DailyClassReport(ctx context.Context, classID int, date string) (*model.DailyReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	class, err := s.classDetail(ctx, classID)
	if err != nil {
		return nil, err
	}

	roster, err := s.classes.GetRoster(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("load roster %d: %w", classID, err)
	}

	records, err := s.attendances.ListByClassAndDate(ctx, classID, day)
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}

	byStudent := make(map[int]model.AttendanceRecord, len(records))
	for _, rec := range records {
		byStudent[rec.StudentID] = rec
	}

	formatted := day.Format(model.DateLayout)
	rows := make([]model.DailyRow, 0, len(roster))
	for i, member := range roster {
		status := model.StatusAbsent
		if rec, ok := byStudent[member.ID]; ok {
			status = rec.Status
		}
		rows = append(rows, model.DailyRow{
			No:      i + 1,
			Student: model.StudentRef{ID: member.ID, NISN: member.NISN, Name: member.Name},
			Status:  status,
			Date:    formatted,
		})
	}

	return &model.DailyReport{
		Date:              formatted,
		Class:             *class,
		StudentAttendance: rows,
	}, nil
}

// WeeklyClassReport reconciles the full roster against one
// Monday–Saturday window, producing a chronological timeline per
// student in roster order.
func (s *AttendanceService) WeeklyClassReport(ctx context.Context, classID, year, month, week int) (*model.WeeklyReport, error) {
	window, err := calendar.WeekWindow(year, month, week)
	if err != nil {
		return nil, ErrInvalidPeriod
	}

	class, err := s.classDetail(ctx, classID)
	if err != nil {
		return nil, err
	}

	roster, err := s.classes.GetRoster(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("load roster %d: %w", classID, err)
	}

	start, end := window[0], window[len(window)-1]
	records, err := s.attendances.ListByClassBetween(ctx, classID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}

	byKey := make(map[attKey]model.AttendanceRecord, len(records))
	for _, rec := range records {
		byKey[attKey{rec.StudentID, calendar.Day(rec.Date)}] = rec
	}

	students := make([]model.StudentTimeline, 0, len(roster))
	for _, member := range roster {
		timeline := make([]model.DayStatus, 0, len(window))
		for _, day := range window {
			status := model.StatusAbsent
			if rec, ok := byKey[attKey{member.ID, day}]; ok {
				status = rec.Status
			}
			timeline = append(timeline, model.DayStatus{
				Date:   day.Format(model.DateLayout),
				Status: status,
			})
		}
		students = append(students, model.StudentTimeline{
			Student: model.StudentIdentity{
				ID:     member.ID,
				NISN:   member.NISN,
				Name:   member.Name,
				Parent: member.Parent,
			},
			Attendance: timeline,
		})
	}

	return &model.WeeklyReport{
		Class: *class,
		Dates: model.DateRange{
			Start: start.Format(model.DateLayout),
			End:   end.Format(model.DateLayout),
		},
		Students: students,
	}, nil
}

// StudentWeeklyReport reconciles one student's week and computes the
// presence summary. Valid days exclude HOLIDAY; the percentage is 0
// when no valid day remains (all six days HOLIDAY).
func (s *AttendanceService) StudentWeeklyReport(ctx context.Context, classID, studentID, year, month, week int) (*model.StudentWeeklyReport, error) {
	window, err := calendar.WeekWindow(year, month, week)
	if err != nil {
		return nil, ErrInvalidPeriod
	}

	class, err := s.classDetail(ctx, classID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentIdentity(ctx, studentID)
	if err != nil {
		return nil, err
	}

	start, end := window[0], window[len(window)-1]
	records, err := s.attendances.ListByStudentBetween(ctx, studentID, classID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}

	byDay := make(map[time.Time]model.AttendanceRecord, len(records))
	for _, rec := range records {
		byDay[calendar.Day(rec.Date)] = rec
	}

	var presentCount, validDays int
	attendances := make([]model.DayStatus, 0, len(window))
	for _, day := range window {
		status := model.StatusAbsent
		if rec, ok := byDay[day]; ok {
			status = rec.Status
		}
		if status != model.StatusHoliday {
			validDays++
		}
		if status == model.StatusPresent {
			presentCount++
		}
		attendances = append(attendances, model.DayStatus{
			Date:   day.Format(model.DateLayout),
			Status: status,
		})
	}

	percentage := 0.0
	if validDays > 0 {
		percentage = round2(float64(presentCount) / float64(validDays) * 100)
	}

	return &model.StudentWeeklyReport{
		Week:        week,
		Student:     *student,
		Class:       *class,
		Dates:       model.DateRange{Start: start.Format(model.DateLayout), End: end.Format(model.DateLayout)},
		Attendances: attendances,
		Summary: model.PresenceSummary{
			PresentCount: presentCount,
			ValidDays:    validDays,
			Percentage:   percentage,
		},
	}, nil
}

// StudentMonthlyReport runs the weekly report independently for the
// month's four fixed weeks. No month-level aggregate is computed.
func (s *AttendanceService) StudentMonthlyReport(ctx context.Context, classID, studentID, year, month int) (*model.StudentMonthlyReport, error) {
	if _, err := calendar.WeekWindow(year, month, 1); err != nil {
		return nil, ErrInvalidPeriod
	}

	weeks := make([]model.StudentWeeklyReport, 0, calendar.WeekCount)
	for week := 1; week <= calendar.WeekCount; week++ {
		report, err := s.StudentWeeklyReport(ctx, classID, studentID, year, month, week)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, *report)
	}

	return &model.StudentMonthlyReport{
		Year:  year,
		Month: month,
		Weeks: weeks,
	}, nil
}

// SetClassStatusForDate sets every roster member's attendance for one
// day to the given status. Missing rows are inserted, rows with a
// different status are updated, rows already at the target status are
// left alone. Inserts and updates commit in one transaction; a failure
// changes nothing.
func (s *AttendanceService) SetClassStatusForDate(ctx context.Context, classID int, date string, status model.AttendanceStatus) (*model.BulkWriteResult, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	class, err := s.classDetail(ctx, classID)
	if err != nil {
		return nil, err
	}

	roster, err := s.classes.GetRoster(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("load roster %d: %w", classID, err)
	}
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	existing, err := s.attendances.ListByClassAndDate(ctx, classID, day)
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	byStudent := make(map[int]model.AttendanceRecord, len(existing))
	for _, rec := range existing {
		byStudent[rec.StudentID] = rec
	}

	formatted := day.Format(model.DateLayout)
	var inserts, updates []model.AttendanceRecord
	applied := make([]model.AppliedRecord, 0, len(roster))
	unchanged := 0

	for _, member := range roster {
		ref := model.StudentRef{ID: member.ID, NISN: member.NISN, Name: member.Name}
		rec, ok := byStudent[member.ID]
		switch {
		case !ok:
			inserts = append(inserts, model.AttendanceRecord{
				StudentID: member.ID,
				ClassID:   classID,
				Date:      day,
				Status:    status,
			})
			applied = append(applied, model.AppliedRecord{Student: ref, Status: status, Date: formatted, Created: true})
		case rec.Status != status:
			rec.Status = status
			updates = append(updates, rec)
			applied = append(applied, model.AppliedRecord{Student: ref, Status: status, Date: formatted})
		default:
			unchanged++
		}
	}

	if err := s.attendances.ApplyBatch(ctx, inserts, updates); err != nil {
		s.log.Error().Err(err).
			Int("class_id", classID).
			Str("date", formatted).
			Str("status", string(status)).
			Int("inserts", len(inserts)).
			Int("updates", len(updates)).
			Msg("bulk attendance write failed")
		return nil, fmt.Errorf("%w: set %s for class %d", ErrBulkWrite, status, classID)
	}

	s.publish(ctx, model.AttendanceEvent{
		Type:    model.EventBulkWrite,
		ClassID: classID,
		Date:    formatted,
		Status:  status,
		Count:   len(applied),
	})

	return &model.BulkWriteResult{
		Class:          *class,
		Date:           formatted,
		Status:         status,
		AppliedRecords: applied,
		Unchanged:      unchanged,
	}, nil
}

// UpsertAttendance creates or updates the unique attendance row for
// (studentID, classID, date) and returns it enriched with display
// identity.
func (s *AttendanceService) UpsertAttendance(ctx context.Context, classID, studentID int, date string, status model.AttendanceStatus) (*model.AttendanceDetail, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	class, err := s.classDetail(ctx, classID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentIdentity(ctx, studentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.attendances.GetByKey(ctx, studentID, classID, day)
	switch {
	case err == nil:
		if err := s.attendances.UpdateStatus(ctx, existing.ID, day, status); err != nil {
			return nil, fmt.Errorf("update attendance %d: %w", existing.ID, err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		rec := &model.AttendanceRecord{
			StudentID: studentID,
			ClassID:   classID,
			Date:      day,
			Status:    status,
		}
		if err := s.attendances.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("create attendance: %w", err)
		}
	default:
		return nil, fmt.Errorf("find attendance: %w", err)
	}

	formatted := day.Format(model.DateLayout)
	s.publish(ctx, model.AttendanceEvent{
		Type:      model.EventUpsert,
		ClassID:   classID,
		StudentID: studentID,
		Date:      formatted,
		Status:    status,
		Count:     1,
	})

	return &model.AttendanceDetail{
		Status:  status,
		Date:    formatted,
		Student: model.StudentRef{ID: student.ID, NISN: student.NISN, Name: student.Name},
		Parent:  student.Parent,
		Class:   *class,
	}, nil
}

func (s *AttendanceService) publish(ctx context.Context, event model.AttendanceEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishAttendance(ctx, event)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
