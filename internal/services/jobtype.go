package services

import (
	"context"
	"errors"

	"github.com/pressline/apiserver/types"
)

// ErrInvalidDepartment reports a department outside the fixed set.
var ErrInvalidDepartment = errors.New("invalid department")

// JobTypeRepository defines persistence operations for job types.
type JobTypeRepository interface {
	GetByID(ctx context.Context, id int) (types.JobType, error)
	List(ctx context.Context) ([]types.JobType, error)
	Create(ctx context.Context, jt types.JobType) (types.JobType, error)
	Update(ctx context.Context, jt types.JobType) (types.JobType, error)
	Delete(ctx context.Context, id int) error
}

// JobTypeService manages the job type catalog.
type JobTypeService struct {
	jobTypes JobTypeRepository
}

func NewJobTypeService(jobTypes JobTypeRepository) *JobTypeService {
	return &JobTypeService{jobTypes: jobTypes}
}

func (s *JobTypeService) Get(ctx context.Context, id int) (types.JobType, error) {
	return s.jobTypes.GetByID(ctx, id)
}

func (s *JobTypeService) List(ctx context.Context) ([]types.JobType, error) {
	return s.jobTypes.List(ctx)
}

// ListWithGoals returns only job types carrying a positive PPOH goal,
// the subset the goal boards display.
func (s *JobTypeService) ListWithGoals(ctx context.Context) ([]types.JobType, error) {
	all, err := s.jobTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	withGoals := make([]types.JobType, 0, len(all))
	for _, jt := range all {
		if jt.ExpectedPPOH > 0 {
			withGoals = append(withGoals, jt)
		}
	}
	return withGoals, nil
}

func (s *JobTypeService) Create(ctx context.Context, jt types.JobType) (types.JobType, error) {
	if err := validateDepartment(jt.Department); err != nil {
		return types.JobType{}, err
	}
	return s.jobTypes.Create(ctx, jt)
}

func (s *JobTypeService) Update(ctx context.Context, jt types.JobType) (types.JobType, error) {
	if err := validateDepartment(jt.Department); err != nil {
		return types.JobType{}, err
	}
	return s.jobTypes.Update(ctx, jt)
}

func (s *JobTypeService) Delete(ctx context.Context, id int) error {
	return s.jobTypes.Delete(ctx, id)
}

func validateDepartment(department string) error {
	if department == "" {
		return nil
	}
	for _, d := range types.Departments {
		if d == department {
			return nil
		}
	}
	return ErrInvalidDepartment
}
