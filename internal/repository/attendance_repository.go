package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// ErrDuplicateAttendance is returned when an insert violates the unique
// (student_id, class_id, date) constraint.
var ErrDuplicateAttendance = errors.New("attendance record for this student, class, and date already exists")

// AttendanceRepository handles attendance row data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `id, student_id, class_id, date, status, created_at, updated_at`

func scanRecord(row interface{ Scan(dest ...any) error }, rec *model.AttendanceRecord) error {
	return row.Scan(&rec.ID, &rec.StudentID, &rec.ClassID, &rec.Date, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
}

// GetByKey retrieves the unique record for (studentID, classID, date).
// Returns pgx.ErrNoRows when no record exists.
func (r *AttendanceRepository) GetByKey(ctx context.Context, studentID, classID int, date time.Time) (*model.AttendanceRecord, error) {
	rec := &model.AttendanceRecord{}
	row := r.pool.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendances
		 WHERE student_id = $1 AND class_id = $2 AND date = $3`,
		studentID, classID, date)
	if err := scanRecord(row, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByClassAndDate retrieves every record of a class for one day.
func (r *AttendanceRepository) ListByClassAndDate(ctx context.Context, classID int, date time.Time) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendances
		 WHERE class_id = $1 AND date = $2`, classID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListByClassBetween retrieves every record of a class inside [start, end].
func (r *AttendanceRepository) ListByClassBetween(ctx context.Context, classID int, start, end time.Time) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendances
		 WHERE class_id = $1 AND date BETWEEN $2 AND $3`, classID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListByStudentBetween retrieves one student's records in a class inside [start, end].
func (r *AttendanceRepository) ListByStudentBetween(ctx context.Context, studentID, classID int, start, end time.Time) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendances
		 WHERE student_id = $1 AND class_id = $2 AND date BETWEEN $3 AND $4`,
		studentID, classID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Create inserts a single attendance row. The unique constraint on
// (student_id, class_id, date) rejects concurrent duplicates.
func (r *AttendanceRepository) Create(ctx context.Context, rec *model.AttendanceRecord) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attendances (student_id, class_id, date, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		rec.StudentID, rec.ClassID, rec.Date, rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAttendance
		}
		return err
	}
	return nil
}

// UpdateStatus rewrites the status (and normalized date) of an existing row.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id int, date time.Time, status model.AttendanceStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE attendances SET status = $1, date = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		status, date, id,
	)
	return err
}

// ApplyBatch writes the bulk writer's partitions in one transaction:
// either every insert and every update commits, or none do. Inserts and
// updates are each a single multi-row statement over UNNEST arrays.
func (r *AttendanceRepository) ApplyBatch(ctx context.Context, inserts, updates []model.AttendanceRecord) error {
	if len(inserts) == 0 && len(updates) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if len(inserts) > 0 {
		studentIDs := make([]int, 0, len(inserts))
		classIDs := make([]int, 0, len(inserts))
		dates := make([]time.Time, 0, len(inserts))
		statuses := make([]string, 0, len(inserts))
		for _, rec := range inserts {
			studentIDs = append(studentIDs, rec.StudentID)
			classIDs = append(classIDs, rec.ClassID)
			dates = append(dates, rec.Date)
			statuses = append(statuses, string(rec.Status))
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO attendances (student_id, class_id, date, status)
			SELECT u.student_id, u.class_id, u.date, u.status
			FROM UNNEST(
				$1::int[],
				$2::int[],
				$3::date[],
				$4::text[]
			) AS u (student_id, class_id, date, status)
		`, studentIDs, classIDs, dates, statuses)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrDuplicateAttendance
			}
			return err
		}
	}

	if len(updates) > 0 {
		ids := make([]int, 0, len(updates))
		statuses := make([]string, 0, len(updates))
		for _, rec := range updates {
			ids = append(ids, rec.ID)
			statuses = append(statuses, string(rec.Status))
		}

		_, err = tx.Exec(ctx, `
			UPDATE attendances AS a
			SET status = t.status,
			    updated_at = CURRENT_TIMESTAMP
			FROM (
				SELECT u.id, u.status
				FROM UNNEST($1::int[], $2::text[]) AS u (id, status)
			) AS t
			WHERE a.id = t.id
		`, ids, statuses)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
