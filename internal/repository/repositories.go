// Package repository handles all interactions with the database.
//
// It contains the SQL for programs, documents, mentors and mentees. Every
// method runs on the transaction stored in its context by
// database.Transactor, or on the pool outside a transaction.
package repository

import (
	"github.com/deppfellow/mentorme/internal/database"
	"github.com/deppfellow/mentorme/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Programs *ProgramRepository
	Mentors  *MentorRepository
	Mentees  *MenteeRepository
}

// NewRepositories builds every repository on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesWithDB(s.DB.Pool)
}

// NewRepositoriesWithDB builds every repository on db.
func NewRepositoriesWithDB(db database.DBTX) *Repositories {
	return &Repositories{
		Programs: NewProgramRepository(db),
		Mentors:  NewMentorRepository(db),
		Mentees:  NewMenteeRepository(db),
	}
}
