package service

import (
	"context"

	"github.com/deppfellow/mentorme/internal/model"
	"github.com/pkg/errors"
)

type MentorStore interface {
	ListByProgram(ctx context.Context, programID int64) ([]model.Mentor, error)
}

type MenteeStore interface {
	ListByProgram(ctx context.Context, programID int64) ([]model.Mentee, error)
}

type MentorService struct {
	store MentorStore
}

func NewMentorService(store MentorStore) *MentorService {
	return &MentorService{store: store}
}

// GetProgramMentors lists the mentors of a program. It does not check that
// the program exists.
func (s *MentorService) GetProgramMentors(ctx context.Context, programID int64) ([]model.Mentor, error) {
	mentors, err := s.store.ListByProgram(ctx, programID)
	if err != nil {
		return nil, errors.Wrapf(err, "list mentors of program %d", programID)
	}
	if mentors == nil {
		mentors = []model.Mentor{}
	}
	return mentors, nil
}

type MenteeService struct {
	store MenteeStore
}

func NewMenteeService(store MenteeStore) *MenteeService {
	return &MenteeService{store: store}
}

// GetProgramMentees lists the mentees of a program. It does not check that
// the program exists.
func (s *MenteeService) GetProgramMentees(ctx context.Context, programID int64) ([]model.Mentee, error) {
	mentees, err := s.store.ListByProgram(ctx, programID)
	if err != nil {
		return nil, errors.Wrapf(err, "list mentees of program %d", programID)
	}
	if mentees == nil {
		mentees = []model.Mentee{}
	}
	return mentees, nil
}
