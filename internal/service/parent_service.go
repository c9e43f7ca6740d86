package service

import (
	"context"

	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
)

// ParentService handles parent profile business logic.
type ParentService struct {
	parentRepo *repository.ParentRepository
}

// NewParentService creates a new ParentService.
func NewParentService(parentRepo *repository.ParentRepository) *ParentService {
	return &ParentService{parentRepo: parentRepo}
}

// GetByID retrieves a parent by ID.
func (s *ParentService) GetByID(ctx context.Context, id int) (*model.Parent, error) {
	return s.parentRepo.GetByID(ctx, id)
}

// List retrieves all parents.
func (s *ParentService) List(ctx context.Context) ([]model.Parent, error) {
	return s.parentRepo.List(ctx)
}

// Create creates a new parent profile.
func (s *ParentService) Create(ctx context.Context, parent *model.Parent) error {
	return s.parentRepo.Create(ctx, parent)
}

// Update modifies an existing parent profile.
func (s *ParentService) Update(ctx context.Context, parent *model.Parent) error {
	return s.parentRepo.Update(ctx, parent)
}

// Delete removes a parent profile.
func (s *ParentService) Delete(ctx context.Context, id int) error {
	return s.parentRepo.Delete(ctx, id)
}
