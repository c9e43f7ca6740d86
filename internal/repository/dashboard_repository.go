package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level entity counts for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalStudents, totalTeachers, totalParents, totalClasses int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM teachers),
			(SELECT COUNT(*) FROM parents),
			(SELECT COUNT(*) FROM classes)`,
	).Scan(&totalStudents, &totalTeachers, &totalParents, &totalClasses)
	return
}

// GetStatusCounts retrieves the distribution of recorded statuses for one day.
func (r *DashboardRepository) GetStatusCounts(ctx context.Context, date time.Time) (map[model.AttendanceStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM attendances WHERE date = $1 GROUP BY status`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.AttendanceStatus]int)
	for rows.Next() {
		var status model.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ClassStatusCount is one class's recorded-status tally for a day.
type ClassStatusCount struct {
	ClassID   int                            `json:"class_id"`
	ClassName string                         `json:"class_name"`
	Counts    map[model.AttendanceStatus]int `json:"counts"`
}

// GetClassStatusCounts retrieves per-class status tallies for one day.
// Classes without any record for the day are omitted.
func (r *DashboardRepository) GetClassStatusCounts(ctx context.Context, date time.Time) ([]ClassStatusCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, a.status, COUNT(*)
		 FROM attendances a
		 JOIN classes c ON c.id = a.class_id
		 WHERE a.date = $1
		 GROUP BY c.id, c.name, a.status
		 ORDER BY c.name, c.id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ClassStatusCount
	index := make(map[int]int)
	for rows.Next() {
		var classID, count int
		var className string
		var status model.AttendanceStatus
		if err := rows.Scan(&classID, &className, &status, &count); err != nil {
			return nil, err
		}
		i, ok := index[classID]
		if !ok {
			result = append(result, ClassStatusCount{
				ClassID:   classID,
				ClassName: className,
				Counts:    make(map[model.AttendanceStatus]int),
			})
			i = len(result) - 1
			index[classID] = i
		}
		result[i].Counts[status] = count
	}
	if result == nil {
		result = []ClassStatusCount{}
	}
	return result, rows.Err()
}
