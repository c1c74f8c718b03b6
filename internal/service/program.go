package service

import (
	"context"

	"github.com/deppfellow/mentorme/internal/errs"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/deppfellow/mentorme/internal/sqlerr"
	"github.com/deppfellow/mentorme/internal/validation"
	"github.com/pkg/errors"
)

const programEntity = "Institutional Program"

// ProgramStore is the persistence the program service needs.
// *repository.ProgramRepository implements it.
type ProgramStore interface {
	Get(ctx context.Context, id int64) (*model.Program, error)
	Create(ctx context.Context, p *model.Program) (*model.Program, error)
	Update(ctx context.Context, id int64, p *model.Program) (*model.Program, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, criteria model.ProgramSearchCriteria, paging model.Paging) ([]model.Program, int64, error)
}

type ProgramService struct {
	store ProgramStore
}

func NewProgramService(store ProgramStore) *ProgramService {
	return &ProgramService{store: store}
}

// programRules adds the cross-field rules to the struct tags of model.Program.
type programRules struct {
	*model.Program
}

func (p programRules) Validate() error {
	if err := validation.Struct(p.Program); err != nil {
		return err
	}

	if p.EndDate.Before(p.StartDate) {
		return validation.CustomValidationErrors{
			{Field: "enddate", Message: "must not be before startdate"},
		}
	}

	return nil
}

func validateProgram(p *model.Program) error {
	if p == nil {
		return errs.NewBadRequestError("program payload is required", true, nil, nil, nil)
	}
	return validation.Check(programRules{p})
}

func checkID(id int64) error {
	if id <= 0 {
		return errs.NewBadRequestError("id must be greater than 0", true, nil,
			[]errs.FieldError{{Field: "id", Error: "must be greater than 0"}}, nil)
	}
	return nil
}

// notFound turns a missing row into a NotFound error naming the id.
func notFound(err error, id int64) error {
	if sqlerr.IsNoRows(err) {
		return errs.NewEntityNotFoundError(programEntity, id)
	}
	return err
}

func (s *ProgramService) Get(ctx context.Context, id int64) (*model.Program, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, notFound(errors.Wrapf(err, "get program %d", id), id)
	}
	return p, nil
}

// Create persists p together with the documents already attached to it.
func (s *ProgramService) Create(ctx context.Context, p *model.Program) (*model.Program, error) {
	if err := validateProgram(p); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "create program")
	}
	return created, nil
}

// Update replaces the fields of program id and appends p.Documents to its
// existing documents.
func (s *ProgramService) Update(ctx context.Context, id int64, p *model.Program) (*model.Program, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validateProgram(p); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, p)
	if err != nil {
		return nil, notFound(errors.Wrapf(err, "update program %d", id), id)
	}
	return updated, nil
}

func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return notFound(errors.Wrapf(err, "delete program %d", id), id)
	}
	return nil
}

func (s *ProgramService) Search(ctx context.Context, criteria model.ProgramSearchCriteria, paging model.Paging) (*model.SearchResult[model.Program], error) {
	programs, total, err := s.store.Search(ctx, criteria, paging)
	if err != nil {
		return nil, errors.Wrap(err, "search programs")
	}
	return model.NewSearchResult(programs, total, paging), nil
}
