package handler

import (
	"context"
	"math"
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/deppfellow/mentorme/internal/database"
	"github.com/deppfellow/mentorme/internal/errs"
	"github.com/deppfellow/mentorme/internal/lib/upload"
	"github.com/deppfellow/mentorme/internal/middleware"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/deppfellow/mentorme/internal/server"
	"github.com/deppfellow/mentorme/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Multipart field names the uploaded documents are read from.
var fileFields = []string{"files", "files[]"}

type ProgramService interface {
	Get(ctx context.Context, id int64) (*model.Program, error)
	Create(ctx context.Context, p *model.Program) (*model.Program, error)
	Update(ctx context.Context, id int64, p *model.Program) (*model.Program, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, criteria model.ProgramSearchCriteria, paging model.Paging) (*model.SearchResult[model.Program], error)
}

type MentorService interface {
	GetProgramMentors(ctx context.Context, programID int64) ([]model.Mentor, error)
}

type MenteeService interface {
	GetProgramMentees(ctx context.Context, programID int64) ([]model.Mentee, error)
}

// DocumentCleaner schedules the removal of stored documents no program
// references anymore. *job.JobService implements it.
type DocumentCleaner interface {
	EnqueueCleanup(ctx context.Context, paths []string) error
}

// ProgramHandler serves /institutionalPrograms. Create, update and delete
// run in one transaction each, the document upload included.
type ProgramHandler struct {
	Handler

	programs ProgramService
	mentors  MentorService
	mentees  MenteeService
	tx       database.Transactor
	uploader upload.Uploader

	// cleaner is optional: without it orphaned uploads are only logged.
	cleaner DocumentCleaner
}

func NewProgramHandler(
	s *server.Server,
	programs ProgramService,
	mentors MentorService,
	mentees MenteeService,
	tx database.Transactor,
	uploader upload.Uploader,
	cleaner DocumentCleaner,
) *ProgramHandler {
	return &ProgramHandler{
		Handler:  NewHandler(s),
		programs: programs,
		mentors:  mentors,
		mentees:  mentees,
		tx:       tx,
		uploader: uploader,
		cleaner:  cleaner,
	}
}

// CheckConfiguration reports the first missing collaborator. It must pass
// before the handler serves requests.
func (h *ProgramHandler) CheckConfiguration() error {
	switch {
	case missing(h.programs):
		return errs.NewConfigurationError("programService", "")
	case missing(h.mentors):
		return errs.NewConfigurationError("mentorService", "")
	case missing(h.mentees):
		return errs.NewConfigurationError("menteeService", "")
	case missing(h.tx):
		return errs.NewConfigurationError("transactor", "")
	case missing(h.uploader):
		return errs.NewConfigurationError("uploader", "")
	case strings.TrimSpace(h.uploader.Directory()) == "":
		return errs.NewConfigurationError("upload.directory", "must not be empty")
	}
	return nil
}

// missing also catches a nil pointer stored in an interface.
func missing(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// ProgramIDRequest addresses a single program by its path id.
type ProgramIDRequest struct {
	ID int64 `param:"id" validate:"gt=0"`
}

func (r *ProgramIDRequest) Validate() error {
	return validation.Struct(r)
}

// ProgramPayload is the program as sent by clients, either as multipart
// form fields or as a JSON body. ID is optional; zero means absent.
type ProgramPayload struct {
	ID              int64  `json:"id" form:"id"`
	ProgramName     string `json:"programName" form:"programName"`
	InstitutionID   int64  `json:"institutionId" form:"institutionId"`
	StartDate       Date   `json:"startDate" form:"startDate"`
	EndDate         Date   `json:"endDate" form:"endDate"`
	DurationInDays  int    `json:"durationInDays" form:"durationInDays"`
	ProgramImageURL string `json:"programImageUrl" form:"programImageUrl"`
	Locale          string `json:"locale" form:"locale"`
}

func (p ProgramPayload) toModel() *model.Program {
	return &model.Program{
		ID:              p.ID,
		ProgramName:     strings.TrimSpace(p.ProgramName),
		InstitutionID:   p.InstitutionID,
		StartDate:       p.StartDate.Time,
		EndDate:         p.EndDate.Time,
		DurationInDays:  p.DurationInDays,
		ProgramImageURL: p.ProgramImageURL,
		Locale:          p.Locale,
	}
}

// CreateProgramRequest binds a new program. Field rules are checked by the
// program service.
type CreateProgramRequest struct {
	ProgramPayload
}

func (r *CreateProgramRequest) Validate() error {
	return nil
}

type UpdateProgramRequest struct {
	PathID int64 `param:"id" json:"-" validate:"gt=0"`
	ProgramPayload
}

func (r *UpdateProgramRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if r.ID != 0 && r.ID != r.PathID {
		return validation.CustomValidationErrors{
			{Field: "id", Message: "must match the id in the path"},
		}
	}

	return nil
}

// SearchProgramsRequest binds the search criteria and paging from the query
// string. Without pageSize the search is unpaged.
type SearchProgramsRequest struct {
	ProgramName   string `query:"programName" validate:"omitempty,max=255"`
	InstitutionID int64  `query:"institutionId" validate:"gte=0"`
	StartDate     Date   `query:"startDate"`
	EndDate       Date   `query:"endDate"`

	PageNumber int    `query:"pageNumber" validate:"gte=0"`
	PageSize   int    `query:"pageSize" validate:"gte=0,max=1000"`
	SortColumn string `query:"sortColumn" validate:"omitempty,oneof=id programName startDate endDate createdOn"`
	SortOrder  string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (r *SearchProgramsRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if r.PageNumber > 0 && r.PageSize == 0 {
		return validation.CustomValidationErrors{
			{Field: "pagesize", Message: "is required when pagenumber is set"},
		}
	}

	// The row offset must fit in an int.
	if r.PageSize > 0 && r.PageNumber > math.MaxInt/r.PageSize {
		return validation.CustomValidationErrors{
			{Field: "pagenumber", Message: "is too large for the page size"},
		}
	}

	return nil
}

func (r *SearchProgramsRequest) criteria() model.ProgramSearchCriteria {
	c := model.ProgramSearchCriteria{
		ProgramName: strings.TrimSpace(r.ProgramName),
		StartDate:   r.StartDate.Ptr(),
		EndDate:     r.EndDate.Ptr(),
	}
	if r.InstitutionID > 0 {
		id := r.InstitutionID
		c.InstitutionID = &id
	}
	return c
}

func (r *SearchProgramsRequest) paging() model.Paging {
	return model.Paging{
		PageNumber: r.PageNumber,
		PageSize:   r.PageSize,
		SortColumn: r.SortColumn,
		SortOrder:  model.SortOrder(r.SortOrder),
	}
}

func (h *ProgramHandler) GetProgram(c echo.Context, req *ProgramIDRequest) (*model.Program, error) {
	return h.programs.Get(c.Request().Context(), req.ID)
}

// CreateProgram uploads the attached files and persists the program with
// its documents in upload order.
func (h *ProgramHandler) CreateProgram(c echo.Context, req *CreateProgramRequest) (*model.Program, error) {
	files, err := formFiles(c)
	if err != nil {
		return nil, err
	}

	program := req.toModel()
	program.ID = 0

	var created *model.Program
	var stored []model.Document
	err = h.tx.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		docs, err := h.uploader.Upload(ctx, files)
		if err != nil {
			return err
		}
		stored = docs
		program.Documents = docs

		created, err = h.programs.Create(ctx, program)
		return err
	})
	if err != nil {
		h.discard(c, stored)
		return nil, err
	}

	annotate(c, created)
	return created, nil
}

// UpdateProgram overwrites the program fields and appends the uploaded
// files to its documents.
func (h *ProgramHandler) UpdateProgram(c echo.Context, req *UpdateProgramRequest) (*model.Program, error) {
	files, err := formFiles(c)
	if err != nil {
		return nil, err
	}

	program := req.toModel()
	program.ID = req.PathID

	var updated *model.Program
	var stored []model.Document
	err = h.tx.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		docs, err := h.uploader.Upload(ctx, files)
		if err != nil {
			return err
		}
		stored = docs
		program.Documents = docs

		updated, err = h.programs.Update(ctx, req.PathID, program)
		return err
	})
	if err != nil {
		h.discard(c, stored)
		return nil, err
	}

	annotate(c, updated)
	return updated, nil
}

// DeleteProgram removes the program. Its stored documents are cleaned up
// once the deletion is committed.
func (h *ProgramHandler) DeleteProgram(c echo.Context, req *ProgramIDRequest) error {
	var docs []model.Document
	err := h.tx.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		p, err := h.programs.Get(ctx, req.ID)
		if err != nil {
			return err
		}
		docs = p.Documents

		return h.programs.Delete(ctx, req.ID)
	})
	if err != nil {
		return err
	}

	h.discard(c, docs)
	return nil
}

func (h *ProgramHandler) SearchPrograms(c echo.Context, req *SearchProgramsRequest) (*model.SearchResult[model.Program], error) {
	return h.programs.Search(c.Request().Context(), req.criteria(), req.paging())
}

// GetProgramMentees checks that the program exists, then lists its mentees.
// The two reads are not isolated from a concurrent delete.
func (h *ProgramHandler) GetProgramMentees(c echo.Context, req *ProgramIDRequest) ([]model.Mentee, error) {
	ctx := c.Request().Context()
	if _, err := h.programs.Get(ctx, req.ID); err != nil {
		return nil, err
	}

	mentees, err := h.mentees.GetProgramMentees(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if mentees == nil {
		mentees = []model.Mentee{}
	}
	return mentees, nil
}

// GetProgramMentors checks that the program exists, then lists its mentors.
func (h *ProgramHandler) GetProgramMentors(c echo.Context, req *ProgramIDRequest) ([]model.Mentor, error) {
	ctx := c.Request().Context()
	if _, err := h.programs.Get(ctx, req.ID); err != nil {
		return nil, err
	}

	mentors, err := h.mentors.GetProgramMentors(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if mentors == nil {
		mentors = []model.Mentor{}
	}
	return mentors, nil
}

// discard hands stored documents that no committed program references to the
// cleaner.
func (h *ProgramHandler) discard(c echo.Context, docs []model.Document) {
	if len(docs) == 0 {
		return
	}

	logger := middleware.GetLogger(c)
	paths := model.DocumentPaths(docs)

	if h.cleaner == nil {
		logger.Warn().Strs("paths", paths).Msg("orphaned documents left in storage, no cleaner configured")
		return
	}

	// The cleanup must be enqueued even when the request was canceled.
	ctx := context.WithoutCancel(c.Request().Context())
	if err := h.cleaner.EnqueueCleanup(ctx, paths); err != nil {
		logger.Error().Err(err).Strs("paths", paths).Msg("failed to enqueue document cleanup")
	}
}

// formFiles returns the uploaded files of a multipart request, in upload
// order. Other content types carry no files.
func formFiles(c echo.Context) ([]*multipart.FileHeader, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, errs.NewBadRequestError("invalid multipart form: "+err.Error(), true, nil, nil, nil)
	}

	var files []*multipart.FileHeader
	for _, field := range fileFields {
		files = append(files, form.File[field]...)
	}
	return files, nil
}

func annotate(c echo.Context, p *model.Program) {
	txn := newrelic.FromContext(c.Request().Context())
	if txn == nil || p == nil {
		return
	}
	txn.AddAttribute("program.id", p.ID)
	txn.AddAttribute("program.documents", len(p.Documents))
}
