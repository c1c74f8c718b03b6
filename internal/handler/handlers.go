// Package handler is the HTTP layer. It binds and validates requests through
// the validation package, calls the services and writes the responses.
package handler

import (
	"github.com/deppfellow/mentorme/internal/database"
	"github.com/deppfellow/mentorme/internal/server"
	"github.com/deppfellow/mentorme/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Program *ProgramHandler
}

// NewHandlers builds every handler and runs their startup checks.
func NewHandlers(s *server.Server, services *service.Services) (*Handlers, error) {
	var cleaner DocumentCleaner
	if services.Job != nil {
		cleaner = services.Job
	}

	var tx database.Transactor
	if s.DB != nil {
		tx = database.NewTransactor(s.DB.Pool)
	}

	program := NewProgramHandler(
		s,
		services.Program,
		services.Mentor,
		services.Mentee,
		tx,
		s.Uploader,
		cleaner,
	)
	if err := program.CheckConfiguration(); err != nil {
		return nil, err
	}

	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Program: program,
	}, nil
}
