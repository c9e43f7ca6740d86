package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

var ErrDuplicateNISN = errors.New("student with this NISN already exists")

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, nisn, name, gender, no_telp, parent_id, created_at, updated_at
		 FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.NISN, &s.Name, &s.Gender, &s.NoTelp, &s.ParentID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetWithParent retrieves a student's display identity including the
// parent's user name, as embedded in attendance reports.
func (r *StudentRepository) GetWithParent(ctx context.Context, id int) (*model.StudentIdentity, error) {
	si := &model.StudentIdentity{}
	var parentID *int
	var parentName *string
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.nisn, s.name, p.id, u.name
		 FROM students s
		 LEFT JOIN parents p ON p.id = s.parent_id
		 LEFT JOIN users u ON u.id = p.user_id
		 WHERE s.id = $1`, id,
	).Scan(&si.ID, &si.NISN, &si.Name, &parentID, &parentName)
	if err != nil {
		return nil, err
	}
	if parentID != nil && parentName != nil {
		si.Parent = &model.ParentRef{ID: *parentID, Name: *parentName}
	}
	return si, nil
}

// ListPaginated retrieves students with pagination and optional class
// filter (via the roster membership table).
func (r *StudentRepository) ListPaginated(ctx context.Context, classID *int, limit, offset int) ([]model.Student, int, error) {
	// 1. Get total count
	countQuery := `SELECT COUNT(*) FROM students`
	var countArgs []interface{}
	if classID != nil {
		countQuery += ` WHERE id IN (SELECT student_id FROM student_classes WHERE class_id = $1)`
		countArgs = append(countArgs, *classID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// 2. Get paginated data
	query := `SELECT id, nisn, name, gender, no_telp, parent_id, created_at, updated_at FROM students`
	var args []interface{}
	argIdx := 1

	if classID != nil {
		query += ` WHERE id IN (SELECT student_id FROM student_classes WHERE class_id = $1)`
		args = append(args, *classID)
		argIdx++
	}

	query += ` ORDER BY name, id LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.NISN, &s.Name, &s.Gender, &s.NoTelp, &s.ParentID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (nisn, name, gender, no_telp, parent_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		s.NISN, s.Name, s.Gender, s.NoTelp, s.ParentID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateNISN
		}
		return err
	}
	return nil
}

// Update modifies a student's basic info.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET nisn = $1, name = $2, gender = $3, no_telp = $4, parent_id = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		s.NISN, s.Name, s.Gender, s.NoTelp, s.ParentID, s.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateNISN
		}
		return err
	}
	return nil
}

// Delete removes a student by ID.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}
