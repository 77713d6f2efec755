package lab

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tendant/simple-lab/pkg/database"
	apperrors "github.com/tendant/simple-lab/pkg/errors"
)

// LabService enforces the lab catalog rules: names are unique and every
// operation on an id requires the lab to exist.
type LabService struct {
	repo LabRepository
}

// NewLabService creates a new lab service
func NewLabService(repo LabRepository) *LabService {
	return &LabService{
		repo: repo,
	}
}

// CreateLab adds a lab. A lab with exactly the same name must not exist.
func (s *LabService) CreateLab(ctx context.Context, name string) (Lab, error) {
	if err := validateName(name); err != nil {
		return Lab{}, err
	}

	var created Lab
	err := s.repo.WithinTx(ctx, database.ReadWrite, func(repo LabRepository) error {
		_, err := repo.GetLabByName(ctx, name)
		if err == nil {
			return apperrors.Conflict(ErrLabNameTaken, "lab already exists with name: %s", name)
		}
		if !errors.Is(err, ErrLabNotFound) {
			return err
		}

		created, err = repo.CreateLab(ctx, name)
		return err
	})
	if err != nil {
		return Lab{}, mapError(err, 0, name)
	}

	slog.Info("Lab created", "id", created.ID, "name", created.Name)
	return created, nil
}

// GetLab retrieves a lab by id
func (s *LabService) GetLab(ctx context.Context, id int64) (Lab, error) {
	var lab Lab
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo LabRepository) error {
		var err error
		lab, err = repo.GetLab(ctx, id)
		return err
	})
	if err != nil {
		return Lab{}, mapError(err, id, "")
	}
	return lab, nil
}

// FindLabs returns every lab in storage order
func (s *LabService) FindLabs(ctx context.Context) ([]Lab, error) {
	var labs []Lab
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo LabRepository) error {
		var err error
		labs, err = repo.FindLabs(ctx)
		return err
	})
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to find labs")
	}
	return labs, nil
}

// UpdateLab renames a lab. The new name conflicts only when it is already
// stored and differs from the lab's current name, so renaming a lab to its
// own name always succeeds.
func (s *LabService) UpdateLab(ctx context.Context, id int64, name string) (Lab, error) {
	if err := validateName(name); err != nil {
		return Lab{}, err
	}

	var updated Lab
	err := s.repo.WithinTx(ctx, database.ReadWrite, func(repo LabRepository) error {
		current, err := repo.GetLab(ctx, id)
		if err != nil {
			return err
		}

		if current.Name != name {
			_, err = repo.GetLabByName(ctx, name)
			if err == nil {
				return apperrors.Conflict(ErrLabNameTaken, "lab already exists with name: %s", name)
			}
			if !errors.Is(err, ErrLabNotFound) {
				return err
			}
		}

		updated, err = repo.UpdateLab(ctx, id, name)
		return err
	})
	if err != nil {
		return Lab{}, mapError(err, id, name)
	}

	slog.Info("Lab updated", "id", updated.ID, "name", updated.Name)
	return updated, nil
}

// DeleteLab removes a lab if it exists. Results that reference it are kept
// and will report no lab name from then on.
func (s *LabService) DeleteLab(ctx context.Context, id int64) error {
	err := s.repo.WithinTx(ctx, database.ReadWrite, func(repo LabRepository) error {
		if _, err := repo.GetLab(ctx, id); err != nil {
			return err
		}
		return repo.DeleteLab(ctx, id)
	})
	if err != nil {
		return mapError(err, id, "")
	}

	slog.Info("Lab deleted", "id", id)
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.InvalidInput("name", "lab name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return apperrors.InvalidInput("name", "lab name cannot exceed 100 characters")
	}
	return nil
}

// mapError converts repository failures into structured errors. Errors that
// are already structured pass through unchanged.
func mapError(err error, id int64, name string) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, ErrLabNotFound):
		return apperrors.NotFound(ErrLabNotFound, "lab not found with id: %d", id)
	case errors.Is(err, ErrLabNameTaken), name != "" && database.IsWriteConflict(err):
		return apperrors.Conflict(ErrLabNameTaken, "lab already exists with name: %s", name)
	case database.IsSerializationFailure(err):
		return apperrors.Wrapf(err, apperrors.ErrCodeConflict, "lab %d was modified concurrently", id)
	default:
		return apperrors.InternalWrap(err, "lab storage failure")
	}
}
