package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sekolahku/presensi-backend/internal/calendar"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
)

// DashboardData consolidates all metrics for the admin dashboard.
type DashboardData struct {
	TotalStudents     int                            `json:"total_students"`
	TotalTeachers     int                            `json:"total_teachers"`
	TotalParents      int                            `json:"total_parents"`
	TotalClasses      int                            `json:"total_classes"`
	TodayStatusCounts map[model.AttendanceStatus]int `json:"today_status_counts"`
	TodayByClass      []repository.ClassStatusCount  `json:"today_by_class"`
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	repo *repository.DashboardRepository
	rdb  *redis.Client
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{repo: repo, rdb: rdb}
}

// GetDashboardData fetches all dashboard metrics. The per-class tallies
// come from the recap worker's Redis snapshot when one exists; a cache
// miss falls through to the database.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	students, teachers, parents, classes, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	today := calendar.Day(time.Now())

	statusCounts, err := s.repo.GetStatusCounts(ctx, today)
	if err != nil {
		return nil, err
	}

	byClass, err := s.todayByClass(ctx, today)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalStudents:     students,
		TotalTeachers:     teachers,
		TotalParents:      parents,
		TotalClasses:      classes,
		TodayStatusCounts: statusCounts,
		TodayByClass:      byClass,
	}, nil
}

func (s *DashboardService) todayByClass(ctx context.Context, today time.Time) ([]repository.ClassStatusCount, error) {
	cached, err := s.rdb.Get(ctx, config.CacheKey.DailyRecapKey(today)).Result()
	if err == nil {
		var byClass []repository.ClassStatusCount
		if jsonErr := json.Unmarshal([]byte(cached), &byClass); jsonErr == nil {
			return byClass, nil
		}
		// Corrupt snapshot, fall through to the database.
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	return s.repo.GetClassStatusCounts(ctx, today)
}
