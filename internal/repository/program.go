package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/mentorme/internal/database"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/deppfellow/mentorme/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const (
	programsTable  = "institutional_programs"
	documentsTable = "documents"

	programColumns = "id, program_name, institution_id, start_date, end_date, duration_in_days, " +
		"program_image_url, locale, created_on, last_modified_on"

	documentColumns = "id, institutional_program_id, name, path, content_type, size, created_on"
)

// sortColumns maps the API sort names onto columns. Anything else sorts by id.
var sortColumns = map[string]string{
	"id":          "id",
	"programName": "program_name",
	"startDate":   "start_date",
	"endDate":     "end_date",
	"createdOn":   "created_on",
}

// ProgramRepository persists institutional programs and their documents.
type ProgramRepository struct {
	db database.DBTX
}

func NewProgramRepository(db database.DBTX) *ProgramRepository {
	return &ProgramRepository{db: db}
}

func scanProgram(row pgx.Row) (model.Program, error) {
	var p model.Program
	err := row.Scan(
		&p.ID,
		&p.ProgramName,
		&p.InstitutionID,
		&p.StartDate,
		&p.EndDate,
		&p.DurationInDays,
		&p.ProgramImageURL,
		&p.Locale,
		&p.CreatedOn,
		&p.LastModifiedOn,
	)
	return p, err
}

func scanDocument(row pgx.Row) (model.Document, error) {
	var d model.Document
	err := row.Scan(
		&d.ID,
		&d.InstitutionalProgramID,
		&d.Name,
		&d.Path,
		&d.ContentType,
		&d.Size,
		&d.CreatedOn,
	)
	return d, err
}

// Get loads a program with its documents.
func (r *ProgramRepository) Get(ctx context.Context, id int64) (*model.Program, error) {
	db := database.Executor(ctx, r.db)

	p, err := scanProgram(db.QueryRow(ctx,
		"SELECT "+programColumns+" FROM "+programsTable+" WHERE id = $1", id))
	if err != nil {
		if sqlerr.IsNoRows(err) {
			return nil, sqlerr.NoRows(programsTable)
		}
		return nil, fmt.Errorf("select program %d: %w", id, err)
	}

	docs, err := r.documentsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p.Documents = docs[id]

	return &p, nil
}

// Create inserts the program and its documents, in order. The returned
// program carries the server-assigned ids and timestamps.
func (r *ProgramRepository) Create(ctx context.Context, p *model.Program) (*model.Program, error) {
	db := database.Executor(ctx, r.db)

	created := *p
	err := db.QueryRow(ctx,
		"INSERT INTO "+programsTable+" (program_name, institution_id, start_date, end_date, "+
			"duration_in_days, program_image_url, locale) VALUES ($1, $2, $3, $4, $5, $6, $7) "+
			"RETURNING id, created_on, last_modified_on",
		p.ProgramName, p.InstitutionID, p.StartDate, p.EndDate,
		p.DurationInDays, p.ProgramImageURL, p.Locale,
	).Scan(&created.ID, &created.CreatedOn, &created.LastModifiedOn)
	if err != nil {
		return nil, fmt.Errorf("insert program: %w", err)
	}

	docs, err := r.insertDocuments(ctx, created.ID, p.Documents)
	if err != nil {
		return nil, err
	}
	created.Documents = docs

	return &created, nil
}

// Update overwrites the program fields and appends p.Documents to the
// documents already attached.
func (r *ProgramRepository) Update(ctx context.Context, id int64, p *model.Program) (*model.Program, error) {
	db := database.Executor(ctx, r.db)

	updated := *p
	updated.ID = id
	err := db.QueryRow(ctx,
		"UPDATE "+programsTable+" SET program_name = $1, institution_id = $2, start_date = $3, "+
			"end_date = $4, duration_in_days = $5, program_image_url = $6, locale = $7, "+
			"last_modified_on = NOW() WHERE id = $8 RETURNING created_on, last_modified_on",
		p.ProgramName, p.InstitutionID, p.StartDate, p.EndDate,
		p.DurationInDays, p.ProgramImageURL, p.Locale, id,
	).Scan(&updated.CreatedOn, &updated.LastModifiedOn)
	if err != nil {
		if sqlerr.IsNoRows(err) {
			return nil, sqlerr.NoRows(programsTable)
		}
		return nil, fmt.Errorf("update program %d: %w", id, err)
	}

	if _, err := r.insertDocuments(ctx, id, p.Documents); err != nil {
		return nil, err
	}

	docs, err := r.documentsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	updated.Documents = docs[id]

	return &updated, nil
}

// Delete removes the program. Documents go with it (ON DELETE CASCADE).
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	db := database.Executor(ctx, r.db)

	tag, err := db.Exec(ctx, "DELETE FROM "+programsTable+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete program %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NoRows(programsTable)
	}
	return nil
}

// Search returns the matching page and the unpaged match count.
func (r *ProgramRepository) Search(ctx context.Context, criteria model.ProgramSearchCriteria, paging model.Paging) ([]model.Program, int64, error) {
	db := database.Executor(ctx, r.db)

	where, args := buildProgramFilter(criteria)

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+programsTable+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}

	if total == 0 {
		return []model.Program{}, 0, nil
	}

	query := "SELECT " + programColumns + " FROM " + programsTable + where + orderBy(paging)
	if paging.Paged() {
		args = append(args, paging.PageSize, paging.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search programs: %w", err)
	}
	programs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Program, error) {
		return scanProgram(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan programs: %w", err)
	}

	if len(programs) == 0 {
		return programs, total, nil
	}

	ids := make([]int64, 0, len(programs))
	for _, p := range programs {
		ids = append(ids, p.ID)
	}

	docs, err := r.documentsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range programs {
		programs[i].Documents = docs[programs[i].ID]
	}

	return programs, total, nil
}

func buildProgramFilter(c model.ProgramSearchCriteria) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if c.ProgramName != "" {
		add("program_name ILIKE $%d", "%"+escapeLike(c.ProgramName)+"%")
	}
	if c.InstitutionID != nil {
		add("institution_id = $%d", *c.InstitutionID)
	}
	if c.StartDate != nil {
		add("start_date >= $%d", *c.StartDate)
	}
	if c.EndDate != nil {
		add("end_date <= $%d", *c.EndDate)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderBy(paging model.Paging) string {
	column, ok := sortColumns[paging.SortColumn]
	if !ok {
		column = "id"
	}

	direction := "ASC"
	if paging.SortOrder == model.SortDesc {
		direction = "DESC"
	}

	if column == "id" {
		return " ORDER BY id " + direction
	}
	// id breaks ties so pages stay stable.
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *ProgramRepository) documentsFor(ctx context.Context, programIDs []int64) (map[int64][]model.Document, error) {
	db := database.Executor(ctx, r.db)

	rows, err := db.Query(ctx,
		"SELECT "+documentColumns+" FROM "+documentsTable+
			" WHERE institutional_program_id = ANY($1) ORDER BY id", programIDs)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Document, error) {
		return scanDocument(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}

	byProgram := make(map[int64][]model.Document, len(programIDs))
	for _, id := range programIDs {
		byProgram[id] = []model.Document{}
	}
	for _, d := range docs {
		byProgram[d.InstitutionalProgramID] = append(byProgram[d.InstitutionalProgramID], d)
	}
	return byProgram, nil
}

func (r *ProgramRepository) insertDocuments(ctx context.Context, programID int64, docs []model.Document) ([]model.Document, error) {
	db := database.Executor(ctx, r.db)

	inserted := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		doc.InstitutionalProgramID = programID
		err := db.QueryRow(ctx,
			"INSERT INTO "+documentsTable+" (institutional_program_id, name, path, content_type, size) "+
				"VALUES ($1, $2, $3, $4, $5) RETURNING id, created_on",
			programID, doc.Name, doc.Path, doc.ContentType, doc.Size,
		).Scan(&doc.ID, &doc.CreatedOn)
		if err != nil {
			return nil, fmt.Errorf("insert document %q: %w", doc.Name, err)
		}
		inserted = append(inserted, doc)
	}
	return inserted, nil
}
