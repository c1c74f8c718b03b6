// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives bound
// request data from the handlers, enforces the domain rules and calls the
// repositories.
package service

import (
	"github.com/deppfellow/mentorme/internal/lib/job"
	"github.com/deppfellow/mentorme/internal/repository"
	"github.com/deppfellow/mentorme/internal/server"
)

type Services struct {
	Auth    *AuthService
	Job     *job.JobService
	Program *ProgramService
	Mentor  *MentorService
	Mentee  *MenteeService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Job:     s.Job,
		Auth:    NewAuthService(s.Config.Auth),
		Program: NewProgramService(repos.Programs),
		Mentor:  NewMentorService(repos.Mentors),
		Mentee:  NewMenteeService(repos.Mentees),
	}, nil
}
