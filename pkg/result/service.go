package result

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/tendant/simple-lab/pkg/database"
	apperrors "github.com/tendant/simple-lab/pkg/errors"
	"github.com/tendant/simple-lab/pkg/lab"
	"github.com/tendant/simple-lab/pkg/utils"
)

// ResultService maintains the result ledger. Every write checks the lab id
// against the lab directory; reads resolve lab names from it and tolerate
// labs that have since been deleted.
type ResultService struct {
	repo ResultRepository
	labs LabDirectory
}

// NewResultService creates a new result service
func NewResultService(repo ResultRepository, labs LabDirectory) *ResultService {
	return &ResultService{
		repo: repo,
		labs: labs,
	}
}

// CreateResult records a result for an existing lab. The user id is not
// checked.
func (s *ResultService) CreateResult(ctx context.Context, params ResultParams) (Result, error) {
	if err := validateParams(params); err != nil {
		return Result{}, err
	}

	var created Result
	err := s.repo.WithinTx(ctx, database.ReadWrite, func(repo ResultRepository) error {
		l, err := s.labs.GetLab(ctx, *params.LabID)
		if err != nil {
			return mapLabError(err, *params.LabID)
		}

		created, err = repo.CreateResult(ctx, params.record())
		if err != nil {
			return err
		}
		created.LabName = &l.Name
		return nil
	})
	if err != nil {
		return Result{}, mapError(err, 0)
	}

	slog.Info("Result created", "id", created.ID, "lab_id", created.LabID, "user_id", created.UserID)
	return created, nil
}

// GetResult retrieves a result by id. LabName is nil when the lab is gone.
func (s *ResultService) GetResult(ctx context.Context, id int64) (Result, error) {
	var result Result
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo ResultRepository) error {
		var err error
		result, err = repo.GetResult(ctx, id)
		return err
	})
	if err != nil {
		return Result{}, mapError(err, id)
	}

	resolved, err := s.withLabNames(ctx, []Result{result})
	if err != nil {
		return Result{}, err
	}
	return resolved[0], nil
}

// FindResults returns every result
func (s *ResultService) FindResults(ctx context.Context) ([]Result, error) {
	return s.find(ctx, func(repo ResultRepository) ([]Result, error) {
		return repo.FindResults(ctx)
	})
}

// FindResultsByUser returns the results recorded for userID. An unknown user
// simply has no results.
func (s *ResultService) FindResultsByUser(ctx context.Context, userID int64) ([]Result, error) {
	return s.find(ctx, func(repo ResultRepository) ([]Result, error) {
		return repo.FindResultsByUser(ctx, userID)
	})
}

// UpdateResult replaces a result. The result must exist and so must the lab
// it will point to.
func (s *ResultService) UpdateResult(ctx context.Context, id int64, params ResultParams) (Result, error) {
	if err := validateParams(params); err != nil {
		return Result{}, err
	}

	var updated Result
	err := s.repo.WithinTx(ctx, database.ReadWrite, func(repo ResultRepository) error {
		if _, err := repo.GetResult(ctx, id); err != nil {
			return err
		}

		l, err := s.labs.GetLab(ctx, *params.LabID)
		if err != nil {
			return mapLabError(err, *params.LabID)
		}

		updated, err = repo.UpdateResult(ctx, id, params.record())
		if err != nil {
			return err
		}
		updated.LabName = &l.Name
		return nil
	})
	if err != nil {
		return Result{}, mapError(err, id)
	}

	slog.Info("Result updated", "id", updated.ID, "lab_id", updated.LabID)
	return updated, nil
}

// DeleteResult removes a result
func (s *ResultService) DeleteResult(ctx context.Context, id int64) error {
	err := s.repo.WithinTx(ctx, database.ReadWrite, func(repo ResultRepository) error {
		if _, err := repo.GetResult(ctx, id); err != nil {
			return err
		}
		return repo.DeleteResult(ctx, id)
	})
	if err != nil {
		return mapError(err, id)
	}

	slog.Info("Result deleted", "id", id)
	return nil
}

// FindLabs lists the labs results can be recorded against
func (s *ResultService) FindLabs(ctx context.Context) ([]lab.Lab, error) {
	labs, err := s.labs.FindLabs(ctx)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to find labs")
	}
	return labs, nil
}

func (s *ResultService) find(ctx context.Context, query func(repo ResultRepository) ([]Result, error)) ([]Result, error) {
	var results []Result
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo ResultRepository) error {
		var err error
		results, err = query(repo)
		return err
	})
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to find results")
	}
	return s.withLabNames(ctx, results)
}

// withLabNames fills LabName from the lab directory. Labs that no longer
// exist leave LabName nil.
func (s *ResultService) withLabNames(ctx context.Context, results []Result) ([]Result, error) {
	if len(results) == 0 {
		return []Result{}, nil
	}

	ids := make([]int64, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.LabID)
	}
	labs, err := s.labs.FindLabsByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to resolve lab names")
	}

	names := make(map[int64]string, len(labs))
	for _, l := range labs {
		names[l.ID] = l.Name
	}
	for i := range results {
		results[i].LabName = nil
		if name, ok := names[results[i].LabID]; ok {
			results[i].LabName = utils.StringPtr(name)
		}
	}
	return results, nil
}

func validateParams(params ResultParams) error {
	if params.UserID == nil {
		return apperrors.InvalidInput("userId", "user id is required")
	}
	if params.LabID == nil {
		return apperrors.InvalidInput("labId", "lab id is required")
	}
	if utf8.RuneCountInString(params.TestType) > MaxTestTypeLength {
		return apperrors.InvalidInput("testType", "test type cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(params.Status) > MaxStatusLength {
		return apperrors.InvalidInput("status", "status cannot exceed 50 characters")
	}
	return nil
}

func mapLabError(err error, labID int64) error {
	if errors.Is(err, lab.ErrLabNotFound) {
		return apperrors.NotFound(lab.ErrLabNotFound, "lab not found with id: %d", labID)
	}
	return apperrors.InternalWrap(err, "failed to look up lab")
}

func mapError(err error, id int64) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, ErrResultNotFound):
		return apperrors.NotFound(ErrResultNotFound, "result not found with id: %d", id)
	case database.IsWriteConflict(err):
		return apperrors.Wrapf(err, apperrors.ErrCodeConflict, "result %d was modified concurrently", id)
	default:
		return apperrors.InternalWrap(err, "result storage failure")
	}
}
