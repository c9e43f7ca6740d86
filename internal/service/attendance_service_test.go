package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/calendar"
	"github.com/sekolahku/presensi-backend/internal/model"
)

type fakeClassStore struct {
	details map[int]model.ClassDetail
	rosters map[int][]model.RosterStudent
}

func (f *fakeClassStore) GetDetail(_ context.Context, id int) (*model.ClassDetail, error) {
	cd, ok := f.details[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &cd, nil
}

func (f *fakeClassStore) GetRoster(_ context.Context, classID int) ([]model.RosterStudent, error) {
	return f.rosters[classID], nil
}

type fakeStudentStore struct {
	students map[int]model.StudentIdentity
}

func (f *fakeStudentStore) GetWithParent(_ context.Context, id int) (*model.StudentIdentity, error) {
	si, ok := f.students[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &si, nil
}

type fakeAttendanceStore struct {
	records   []model.AttendanceRecord
	nextID    int
	batchErr  error
	batchRuns int
}

func (f *fakeAttendanceStore) GetByKey(_ context.Context, studentID, classID int, date time.Time) (*model.AttendanceRecord, error) {
	day := calendar.Day(date)
	for _, rec := range f.records {
		if rec.StudentID == studentID && rec.ClassID == classID && calendar.Day(rec.Date).Equal(day) {
			out := rec
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttendanceStore) ListByClassAndDate(_ context.Context, classID int, date time.Time) ([]model.AttendanceRecord, error) {
	day := calendar.Day(date)
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		if rec.ClassID == classID && calendar.Day(rec.Date).Equal(day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) ListByClassBetween(_ context.Context, classID int, start, end time.Time) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		day := calendar.Day(rec.Date)
		if rec.ClassID == classID && !day.Before(start) && !day.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) ListByStudentBetween(_ context.Context, studentID, classID int, start, end time.Time) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		day := calendar.Day(rec.Date)
		if rec.StudentID == studentID && rec.ClassID == classID && !day.Before(start) && !day.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) Create(_ context.Context, rec *model.AttendanceRecord) error {
	f.nextID++
	rec.ID = f.nextID
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeAttendanceStore) UpdateStatus(_ context.Context, id int, date time.Time, status model.AttendanceStatus) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Status = status
			f.records[i].Date = date
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeAttendanceStore) ApplyBatch(_ context.Context, inserts, updates []model.AttendanceRecord) error {
	f.batchRuns++
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, rec := range inserts {
		f.nextID++
		rec.ID = f.nextID
		f.records = append(f.records, rec)
	}
	for _, upd := range updates {
		for i := range f.records {
			if f.records[i].ID == upd.ID {
				f.records[i].Status = upd.Status
			}
		}
	}
	return nil
}

type fakeNotifier struct {
	events []model.AttendanceEvent
}

func (f *fakeNotifier) PublishAttendance(_ context.Context, event model.AttendanceEvent) {
	f.events = append(f.events, event)
}

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return calendar.Day(d)
}

// newFixture builds a service over class 1 with students Amir (1) and
// Budi (2) on the roster, in name order.
func newFixture() (*AttendanceService, *fakeClassStore, *fakeStudentStore, *fakeAttendanceStore, *fakeNotifier) {
	classes := &fakeClassStore{
		details: map[int]model.ClassDetail{
			1: {ID: 1, Name: "Kelas 1A", Teacher: &model.TeacherRef{ID: 7, Name: "Bu Sari"}},
		},
		rosters: map[int][]model.RosterStudent{
			1: {
				{ID: 1, NISN: "0051", Name: "Amir"},
				{ID: 2, NISN: "0052", Name: "Budi"},
			},
		},
	}
	students := &fakeStudentStore{
		students: map[int]model.StudentIdentity{
			1: {ID: 1, NISN: "0051", Name: "Amir"},
			2: {ID: 2, NISN: "0052", Name: "Budi", Parent: &model.ParentRef{ID: 3, Name: "Pak Joko"}},
		},
	}
	attendances := &fakeAttendanceStore{}
	notifier := &fakeNotifier{}
	svc := NewAttendanceService(classes, students, attendances, notifier, zerolog.Nop())
	return svc, classes, students, attendances, notifier
}

func TestDailyClassReportFillsMissingAsAbsent(t *testing.T) {
	svc, _, _, attendances, _ := newFixture()
	attendances.records = []model.AttendanceRecord{
		{ID: 1, StudentID: 1, ClassID: 1, Date: day(t, "2024-05-06"), Status: model.StatusPresent},
	}

	report, err := svc.DailyClassReport(context.Background(), 1, "2024-05-06")
	if err != nil {
		t.Fatalf("DailyClassReport: %v", err)
	}

	if report.Class.Name != "Kelas 1A" {
		t.Errorf("class name = %q, want Kelas 1A", report.Class.Name)
	}
	if len(report.StudentAttendance) != 2 {
		t.Fatalf("rows = %d, want 2", len(report.StudentAttendance))
	}
	rows := report.StudentAttendance
	if rows[0].Student.Name != "Amir" || rows[0].Status != model.StatusPresent {
		t.Errorf("row 0 = %s %s, want Amir PRESENT", rows[0].Student.Name, rows[0].Status)
	}
	if rows[1].Student.Name != "Budi" || rows[1].Status != model.StatusAbsent {
		t.Errorf("row 1 = %s %s, want Budi ABSENT", rows[1].Student.Name, rows[1].Status)
	}
	if rows[0].No != 1 || rows[1].No != 2 {
		t.Errorf("row numbering = %d,%d, want 1,2", rows[0].No, rows[1].No)
	}

	// The ABSENT fill is report-only.
	if len(attendances.records) != 1 {
		t.Errorf("store grew to %d records during a read", len(attendances.records))
	}
}

func TestDailyClassReportErrors(t *testing.T) {
	svc, _, _, _, _ := newFixture()

	if _, err := svc.DailyClassReport(context.Background(), 1, "06-05-2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date: err = %v, want ErrInvalidDate", err)
	}
	if _, err := svc.DailyClassReport(context.Background(), 99, "2024-05-06"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("unknown class: err = %v, want ErrClassNotFound", err)
	}
}

func TestWeeklyClassReport(t *testing.T) {
	svc, _, _, attendances, _ := newFixture()
	attendances.records = []model.AttendanceRecord{
		{ID: 1, StudentID: 1, ClassID: 1, Date: day(t, "2024-05-07"), Status: model.StatusLate},
		{ID: 2, StudentID: 2, ClassID: 1, Date: day(t, "2024-05-11"), Status: model.StatusHoliday},
	}

	report, err := svc.WeeklyClassReport(context.Background(), 1, 2024, 5, 1)
	if err != nil {
		t.Fatalf("WeeklyClassReport: %v", err)
	}

	if report.Dates.Start != "2024-05-06" || report.Dates.End != "2024-05-11" {
		t.Errorf("window = %s..%s, want 2024-05-06..2024-05-11", report.Dates.Start, report.Dates.End)
	}
	if len(report.Students) != 2 {
		t.Fatalf("students = %d, want 2", len(report.Students))
	}

	amir := report.Students[0]
	if len(amir.Attendance) != calendar.WindowDays {
		t.Fatalf("timeline = %d cells, want %d", len(amir.Attendance), calendar.WindowDays)
	}
	for i, cell := range amir.Attendance {
		want := model.StatusAbsent
		if cell.Date == "2024-05-07" {
			want = model.StatusLate
		}
		if cell.Status != want {
			t.Errorf("amir cell %d (%s) = %s, want %s", i, cell.Date, cell.Status, want)
		}
	}

	budi := report.Students[1]
	if budi.Attendance[5].Date != "2024-05-11" || budi.Attendance[5].Status != model.StatusHoliday {
		t.Errorf("budi saturday = %s %s, want 2024-05-11 HOLIDAY", budi.Attendance[5].Date, budi.Attendance[5].Status)
	}
}

func TestWeeklyClassReportInvalidPeriod(t *testing.T) {
	svc, _, _, _, _ := newFixture()
	for _, tc := range []struct{ year, month, week int }{
		{2024, 5, 0},
		{2024, 5, 5},
		{2024, 13, 1},
		{0, 5, 1},
	} {
		if _, err := svc.WeeklyClassReport(context.Background(), 1, tc.year, tc.month, tc.week); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("(%d,%d,%d): err = %v, want ErrInvalidPeriod", tc.year, tc.month, tc.week, err)
		}
	}
}

func TestStudentWeeklyReportSummary(t *testing.T) {
	svc, _, _, attendances, _ := newFixture()
	// Week 2024-05-06..11: 4 PRESENT, 1 HOLIDAY, Saturday missing.
	attendances.records = []model.AttendanceRecord{
		{ID: 1, StudentID: 2, ClassID: 1, Date: day(t, "2024-05-06"), Status: model.StatusPresent},
		{ID: 2, StudentID: 2, ClassID: 1, Date: day(t, "2024-05-07"), Status: model.StatusPresent},
		{ID: 3, StudentID: 2, ClassID: 1, Date: day(t, "2024-05-08"), Status: model.StatusPresent},
		{ID: 4, StudentID: 2, ClassID: 1, Date: day(t, "2024-05-09"), Status: model.StatusHoliday},
		{ID: 5, StudentID: 2, ClassID: 1, Date: day(t, "2024-05-10"), Status: model.StatusPresent},
	}

	report, err := svc.StudentWeeklyReport(context.Background(), 1, 2, 2024, 5, 1)
	if err != nil {
		t.Fatalf("StudentWeeklyReport: %v", err)
	}

	if report.Student.Name != "Budi" {
		t.Errorf("student = %q, want Budi", report.Student.Name)
	}
	if report.Student.Parent == nil || report.Student.Parent.Name != "Pak Joko" {
		t.Errorf("parent = %+v, want Pak Joko", report.Student.Parent)
	}
	if len(report.Attendances) != calendar.WindowDays {
		t.Fatalf("cells = %d, want %d", len(report.Attendances), calendar.WindowDays)
	}
	if report.Attendances[5].Status != model.StatusAbsent {
		t.Errorf("missing saturday = %s, want ABSENT", report.Attendances[5].Status)
	}

	sum := report.Summary
	if sum.PresentCount != 4 || sum.ValidDays != 5 {
		t.Errorf("summary = %d/%d, want 4/5", sum.PresentCount, sum.ValidDays)
	}
	if sum.Percentage != 80 {
		t.Errorf("percentage = %v, want 80", sum.Percentage)
	}
}

func TestStudentWeeklyReportAllHolidays(t *testing.T) {
	svc, _, _, attendances, _ := newFixture()
	for i, d := range []string{"2024-05-06", "2024-05-07", "2024-05-08", "2024-05-09", "2024-05-10", "2024-05-11"} {
		attendances.records = append(attendances.records, model.AttendanceRecord{
			ID: i + 1, StudentID: 1, ClassID: 1, Date: day(t, d), Status: model.StatusHoliday,
		})
	}

	report, err := svc.StudentWeeklyReport(context.Background(), 1, 1, 2024, 5, 1)
	if err != nil {
		t.Fatalf("StudentWeeklyReport: %v", err)
	}
	sum := report.Summary
	if sum.ValidDays != 0 || sum.Percentage != 0 {
		t.Errorf("all-holiday summary = valid %d pct %v, want 0 and 0", sum.ValidDays, sum.Percentage)
	}
}

func TestStudentWeeklyReportRounding(t *testing.T) {
	svc, _, _, attendances, _ := newFixture()
	attendances.records = []model.AttendanceRecord{
		{ID: 1, StudentID: 1, ClassID: 1, Date: day(t, "2024-05-06"), Status: model.StatusPresent},
	}

	report, err := svc.StudentWeeklyReport(context.Background(), 1, 1, 2024, 5, 1)
	if err != nil {
		t.Fatalf("StudentWeeklyReport: %v", err)
	}
	// 1 of 6 valid days.
	if report.Summary.Percentage != 16.67 {
		t.Errorf("percentage = %v, want 16.67", report.Summary.Percentage)
	}
}

func TestStudentWeeklyReportUnknownStudent(t *testing.T) {
	svc, _, _, _, _ := newFixture()
	if _, err := svc.StudentWeeklyReport(context.Background(), 1, 99, 2024, 5, 1); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestStudentMonthlyReport(t *testing.T) {
	svc, _, _, attendances, _ := newFixture()
	attendances.records = []model.AttendanceRecord{
		{ID: 1, StudentID: 1, ClassID: 1, Date: day(t, "2024-05-13"), Status: model.StatusPresent},
	}

	report, err := svc.StudentMonthlyReport(context.Background(), 1, 1, 2024, 5)
	if err != nil {
		t.Fatalf("StudentMonthlyReport: %v", err)
	}
	if report.Year != 2024 || report.Month != 5 {
		t.Errorf("period = %d-%d, want 2024-5", report.Year, report.Month)
	}
	if len(report.Weeks) != calendar.WeekCount {
		t.Fatalf("weeks = %d, want %d", len(report.Weeks), calendar.WeekCount)
	}
	for i, week := range report.Weeks {
		if week.Week != i+1 {
			t.Errorf("week %d labeled %d", i+1, week.Week)
		}
	}
	// Week 2 starts 2024-05-13; the one PRESENT lands there only.
	if report.Weeks[1].Summary.PresentCount != 1 {
		t.Errorf("week 2 present = %d, want 1", report.Weeks[1].Summary.PresentCount)
	}
	if report.Weeks[0].Summary.PresentCount != 0 {
		t.Errorf("week 1 present = %d, want 0", report.Weeks[0].Summary.PresentCount)
	}

	if _, err := svc.StudentMonthlyReport(context.Background(), 1, 1, 2024, 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("month 0: err = %v, want ErrInvalidPeriod", err)
	}
}

func TestSetClassStatusForDatePartitions(t *testing.T) {
	svc, _, _, attendances, notifier := newFixture()
	// Amir already HOLIDAY (needs update), Budi has no row (needs insert).
	attendances.records = []model.AttendanceRecord{
		{ID: 1, StudentID: 1, ClassID: 1, Date: day(t, "2024-05-06"), Status: model.StatusHoliday},
	}
	attendances.nextID = 1

	result, err := svc.SetClassStatusForDate(context.Background(), 1, "2024-05-06", model.StatusPresent)
	if err != nil {
		t.Fatalf("SetClassStatusForDate: %v", err)
	}

	if len(result.AppliedRecords) != 2 || result.Unchanged != 0 {
		t.Fatalf("applied = %d unchanged = %d, want 2 and 0", len(result.AppliedRecords), result.Unchanged)
	}
	for _, ar := range result.AppliedRecords {
		if ar.Status != model.StatusPresent {
			t.Errorf("applied status for %s = %s", ar.Student.Name, ar.Status)
		}
	}
	// Roster order: Amir updated, Budi created.
	if result.AppliedRecords[0].Created || !result.AppliedRecords[1].Created {
		t.Errorf("created flags = %v,%v, want false,true",
			result.AppliedRecords[0].Created, result.AppliedRecords[1].Created)
	}

	for _, rec := range attendances.records {
		if rec.Status != model.StatusPresent {
			t.Errorf("store row student %d = %s, want PRESENT", rec.StudentID, rec.Status)
		}
	}

	if len(notifier.events) != 1 || notifier.events[0].Type != model.EventBulkWrite || notifier.events[0].Count != 2 {
		t.Errorf("events = %+v, want one bulk_write with count 2", notifier.events)
	}
}

func TestSetClassStatusForDateIdempotent(t *testing.T) {
	svc, _, _, attendances, _ := newFixture()

	if _, err := svc.SetClassStatusForDate(context.Background(), 1, "2024-05-06", model.StatusHoliday); err != nil {
		t.Fatalf("first write: %v", err)
	}
	result, err := svc.SetClassStatusForDate(context.Background(), 1, "2024-05-06", model.StatusHoliday)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}

	if len(result.AppliedRecords) != 0 || result.Unchanged != 2 {
		t.Errorf("second write applied = %d unchanged = %d, want 0 and 2",
			len(result.AppliedRecords), result.Unchanged)
	}
	if len(attendances.records) != 2 {
		t.Errorf("store rows = %d, want 2", len(attendances.records))
	}
}

func TestSetClassStatusForDateAtomic(t *testing.T) {
	svc, _, _, attendances, notifier := newFixture()
	attendances.records = []model.AttendanceRecord{
		{ID: 1, StudentID: 1, ClassID: 1, Date: day(t, "2024-05-06"), Status: model.StatusHoliday},
	}
	attendances.nextID = 1
	attendances.batchErr = errors.New("connection reset")

	_, err := svc.SetClassStatusForDate(context.Background(), 1, "2024-05-06", model.StatusPresent)
	if !errors.Is(err, ErrBulkWrite) {
		t.Fatalf("err = %v, want ErrBulkWrite", err)
	}

	if len(attendances.records) != 1 || attendances.records[0].Status != model.StatusHoliday {
		t.Errorf("store mutated after failed batch: %+v", attendances.records)
	}
	if len(notifier.events) != 0 {
		t.Errorf("events published after failed batch: %+v", notifier.events)
	}
}

func TestSetClassStatusForDateValidation(t *testing.T) {
	svc, classes, _, _, _ := newFixture()

	if _, err := svc.SetClassStatusForDate(context.Background(), 1, "2024-05-06", "SLEEPING"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.SetClassStatusForDate(context.Background(), 1, "tomorrow", model.StatusHoliday); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date: err = %v, want ErrInvalidDate", err)
	}
	if _, err := svc.SetClassStatusForDate(context.Background(), 99, "2024-05-06", model.StatusHoliday); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("unknown class: err = %v, want ErrClassNotFound", err)
	}

	classes.details[2] = model.ClassDetail{ID: 2, Name: "Kelas Kosong"}
	if _, err := svc.SetClassStatusForDate(context.Background(), 2, "2024-05-06", model.StatusHoliday); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("empty roster: err = %v, want ErrEmptyRoster", err)
	}
}

func TestUpsertAttendanceCreateThenUpdate(t *testing.T) {
	svc, _, _, attendances, notifier := newFixture()

	detail, err := svc.UpsertAttendance(context.Background(), 1, 2, "2024-05-06", model.StatusLate)
	if err != nil {
		t.Fatalf("create upsert: %v", err)
	}
	if detail.Status != model.StatusLate || detail.Student.Name != "Budi" {
		t.Errorf("detail = %s %s, want LATE Budi", detail.Status, detail.Student.Name)
	}
	if detail.Parent == nil || detail.Parent.Name != "Pak Joko" {
		t.Errorf("parent = %+v, want Pak Joko", detail.Parent)
	}
	if len(attendances.records) != 1 {
		t.Fatalf("store rows = %d, want 1", len(attendances.records))
	}

	detail, err = svc.UpsertAttendance(context.Background(), 1, 2, "2024-05-06", model.StatusPresent)
	if err != nil {
		t.Fatalf("update upsert: %v", err)
	}
	if detail.Status != model.StatusPresent {
		t.Errorf("detail status = %s, want PRESENT", detail.Status)
	}
	if len(attendances.records) != 1 {
		t.Errorf("store rows = %d after update, want still 1", len(attendances.records))
	}
	if attendances.records[0].Status != model.StatusPresent {
		t.Errorf("store status = %s, want PRESENT", attendances.records[0].Status)
	}

	if len(notifier.events) != 2 {
		t.Fatalf("events = %d, want 2", len(notifier.events))
	}
	if notifier.events[0].Type != model.EventUpsert || notifier.events[0].StudentID != 2 {
		t.Errorf("event = %+v, want upsert for student 2", notifier.events[0])
	}
}

func TestUpsertAttendanceValidation(t *testing.T) {
	svc, _, _, _, _ := newFixture()

	if _, err := svc.UpsertAttendance(context.Background(), 1, 2, "2024-05-06", "MAYBE"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.UpsertAttendance(context.Background(), 99, 2, "2024-05-06", model.StatusLate); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("unknown class: err = %v, want ErrClassNotFound", err)
	}
	if _, err := svc.UpsertAttendance(context.Background(), 1, 99, "2024-05-06", model.StatusLate); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("unknown student: err = %v, want ErrStudentNotFound", err)
	}
}
