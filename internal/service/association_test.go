package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/mentorme/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMentorStore struct {
	mentors []model.Mentor
	err     error
}

func (f fakeMentorStore) ListByProgram(_ context.Context, _ int64) ([]model.Mentor, error) {
	return f.mentors, f.err
}

type fakeMenteeStore struct {
	mentees []model.Mentee
	err     error
}

func (f fakeMenteeStore) ListByProgram(_ context.Context, _ int64) ([]model.Mentee, error) {
	return f.mentees, f.err
}

func TestMentorService_GetProgramMentors(t *testing.T) {
	svc := NewMentorService(fakeMentorStore{mentors: []model.Mentor{{ID: 1, FirstName: "Ada"}}})

	mentors, err := svc.GetProgramMentors(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, mentors, 1)
}

func TestMentorService_EmptyIsNotNil(t *testing.T) {
	svc := NewMentorService(fakeMentorStore{})

	mentors, err := svc.GetProgramMentors(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, mentors)
	assert.Empty(t, mentors)
}

func TestMenteeService_GetProgramMentees(t *testing.T) {
	svc := NewMenteeService(fakeMenteeStore{})

	mentees, err := svc.GetProgramMentees(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, mentees)

	svc = NewMenteeService(fakeMenteeStore{err: errors.New("boom")})
	_, err = svc.GetProgramMentees(context.Background(), 7)
	assert.ErrorContains(t, err, "list mentees of program 7")
}
