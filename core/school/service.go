package school

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core/user"
)

var ErrNotFound = errors.New("school not found")

type (
	Repository interface {
		CreateSchool(ctx context.Context, sch School) (School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
		GetSchoolByCode(ctx context.Context, code string) (School, error)
		UpdateSchool(ctx context.Context, sch School) (School, error)
		DeleteSchoolsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a school. The code links the school to its admin account,
// so callers provisioning a school for a registered user must pass that
// user's code; a fresh one is generated otherwise.
func (svc *Service) Create(ctx context.Context, ns NewSchool) (School, error) {
	code := ns.Code
	if code == "" {
		code = user.AccessCodeFor(user.RoleSchool)
	}

	now := time.Now().UTC()
	sch := School{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Code:      code,
		Address:   ns.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateSchool(ctx, sch)
}

func (svc *Service) QueryAll(ctx context.Context) ([]School, error) {
	return svc.repo.QueryAllSchools(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchoolByID(ctx, id)
}

func (svc *Service) GetByCode(ctx context.Context, code string) (School, error) {
	return svc.repo.GetSchoolByCode(ctx, code)
}

// AddDepartment appends a department to the school's roster.
func (svc *Service) AddDepartment(ctx context.Context, schoolID string, nd NewDepartment) (School, error) {
	sch, err := svc.repo.GetSchoolByID(ctx, schoolID)
	if err != nil {
		return School{}, err
	}
	sch.Departments = append(sch.Departments, Department{
		ID:   uuid.New().String(),
		Name: nd.Name,
		Head: nd.Head,
	})
	sch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSchool(ctx, sch)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSchoolsByID(ctx, ids...)
}
