package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/mentorme/internal/database"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/jackc/pgx/v5"
)

const personColumns = "id, first_name, last_name, email, institutional_program_id"

// MentorRepository reads mentors by program.
type MentorRepository struct {
	db database.DBTX
}

func NewMentorRepository(db database.DBTX) *MentorRepository {
	return &MentorRepository{db: db}
}

// ListByProgram returns the mentors attached to programID, never nil.
func (r *MentorRepository) ListByProgram(ctx context.Context, programID int64) ([]model.Mentor, error) {
	rows, err := database.Executor(ctx, r.db).Query(ctx,
		"SELECT "+personColumns+" FROM mentors WHERE institutional_program_id = $1 ORDER BY id", programID)
	if err != nil {
		return nil, fmt.Errorf("select mentors of program %d: %w", programID, err)
	}

	mentors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Mentor, error) {
		var m model.Mentor
		err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.InstitutionalProgramID)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan mentors: %w", err)
	}
	if mentors == nil {
		mentors = []model.Mentor{}
	}
	return mentors, nil
}

// MenteeRepository reads mentees by program.
type MenteeRepository struct {
	db database.DBTX
}

func NewMenteeRepository(db database.DBTX) *MenteeRepository {
	return &MenteeRepository{db: db}
}

// ListByProgram returns the mentees attached to programID, never nil.
func (r *MenteeRepository) ListByProgram(ctx context.Context, programID int64) ([]model.Mentee, error) {
	rows, err := database.Executor(ctx, r.db).Query(ctx,
		"SELECT "+personColumns+" FROM mentees WHERE institutional_program_id = $1 ORDER BY id", programID)
	if err != nil {
		return nil, fmt.Errorf("select mentees of program %d: %w", programID, err)
	}

	mentees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Mentee, error) {
		var m model.Mentee
		err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.InstitutionalProgramID)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan mentees: %w", err)
	}
	if mentees == nil {
		mentees = []model.Mentee{}
	}
	return mentees, nil
}
