package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

var (
	ErrDuplicateClass  = errors.New("class with this name already exists")
	ErrDuplicateMember = errors.New("student is already a member of this class")
)

// ClassRepository handles class and roster-membership data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	c := &model.Class{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, teacher_id, created_at, updated_at
		 FROM classes WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetDetail retrieves the class identity annotated with its homeroom
// teacher, as embedded in attendance reports.
func (r *ClassRepository) GetDetail(ctx context.Context, id int) (*model.ClassDetail, error) {
	cd := &model.ClassDetail{}
	var teacherID *int
	var teacherName *string
	err := r.pool.QueryRow(ctx,
		`SELECT c.id, c.name, t.id, u.name
		 FROM classes c
		 LEFT JOIN teachers t ON t.id = c.teacher_id
		 LEFT JOIN users u ON u.id = t.user_id
		 WHERE c.id = $1`, id,
	).Scan(&cd.ID, &cd.Name, &teacherID, &teacherName)
	if err != nil {
		return nil, err
	}
	if teacherID != nil && teacherName != nil {
		cd.Teacher = &model.TeacherRef{ID: *teacherID, Name: *teacherName}
	}
	return cd, nil
}

// GetRoster retrieves the class members with parent identity, ordered
// by student name ascending with id as the stable tie-break.
func (r *ClassRepository) GetRoster(ctx context.Context, classID int) ([]model.RosterStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.nisn, s.name, p.id, u.name
		 FROM student_classes sc
		 JOIN students s ON s.id = sc.student_id
		 LEFT JOIN parents p ON p.id = s.parent_id
		 LEFT JOIN users u ON u.id = p.user_id
		 WHERE sc.class_id = $1
		 ORDER BY s.name, s.id`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []model.RosterStudent
	for rows.Next() {
		var rs model.RosterStudent
		var parentID *int
		var parentName *string
		if err := rows.Scan(&rs.ID, &rs.NISN, &rs.Name, &parentID, &parentName); err != nil {
			return nil, err
		}
		if parentID != nil && parentName != nil {
			rs.Parent = &model.ParentRef{ID: *parentID, Name: *parentName}
		}
		roster = append(roster, rs)
	}
	return roster, rows.Err()
}

// List retrieves all classes.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, teacher_id, created_at, updated_at
		 FROM classes ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, teacher_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.TeacherID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateClass
		}
		return err
	}
	return nil
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $1, teacher_id = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		c.Name, c.TeacherID, c.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateClass
		}
		return err
	}
	return nil
}

// Delete removes a class by its ID.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}

// AddMember links a student to a class roster.
func (r *ClassRepository) AddMember(ctx context.Context, classID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO student_classes (student_id, class_id) VALUES ($1, $2)`,
		studentID, classID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateMember
		}
		return err
	}
	return nil
}

// RemoveMember unlinks a student from a class roster.
func (r *ClassRepository) RemoveMember(ctx context.Context, classID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM student_classes WHERE student_id = $1 AND class_id = $2`,
		studentID, classID,
	)
	return err
}
