package service

import (
	"context"

	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
)

// ClassService handles class and roster-membership business logic.
type ClassService struct {
	classRepo *repository.ClassRepository
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo *repository.ClassRepository) *ClassService {
	return &ClassService{classRepo: classRepo}
}

// GetByID retrieves a class by its ID.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return s.classRepo.GetByID(ctx, id)
}

// GetDetail retrieves a class annotated with its homeroom teacher.
func (s *ClassService) GetDetail(ctx context.Context, id int) (*model.ClassDetail, error) {
	return s.classRepo.GetDetail(ctx, id)
}

// GetRoster retrieves the class members in name order.
func (s *ClassService) GetRoster(ctx context.Context, classID int) ([]model.RosterStudent, error) {
	if _, err := s.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.classRepo.GetRoster(ctx, classID)
}

// List retrieves all classes.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	return s.classRepo.List(ctx)
}

// Create creates a new class.
func (s *ClassService) Create(ctx context.Context, class *model.Class) error {
	return s.classRepo.Create(ctx, class)
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, class *model.Class) error {
	return s.classRepo.Update(ctx, class)
}

// Delete removes a class. The foreign key on attendances prevents
// deleting a class that still has records.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	return s.classRepo.Delete(ctx, id)
}

// AddMember links a student to the class roster.
func (s *ClassService) AddMember(ctx context.Context, classID, studentID int) error {
	return s.classRepo.AddMember(ctx, classID, studentID)
}

// RemoveMember unlinks a student from the class roster.
func (s *ClassService) RemoveMember(ctx context.Context, classID, studentID int) error {
	return s.classRepo.RemoveMember(ctx, classID, studentID)
}
