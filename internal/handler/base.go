package handler

import (
	"reflect"
	"time"

	"github.com/deppfellow/mentorme/internal/middleware"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/deppfellow/mentorme/internal/server"
	"github.com/deppfellow/mentorme/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler carries the shared application dependencies of the concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives the bound, validated request
// and returns the response body.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint without a response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// responseWriter writes a successful result with a fixed status.
type responseWriter interface {
	write(c echo.Context, result interface{}) error
	operation() string
	status() int
}

type jsonResponse int

func (r jsonResponse) write(c echo.Context, result interface{}) error {
	return c.JSON(int(r), result)
}

func (r jsonResponse) operation() string { return "handler" }
func (r jsonResponse) status() int       { return int(r) }

type noContentResponse int

func (r noContentResponse) write(c echo.Context, _ interface{}) error {
	return c.NoContent(int(r))
}

func (r noContentResponse) operation() string { return "handler_no_content" }
func (r noContentResponse) status() int       { return int(r) }

// resultCount is the number of entities a result carries, for list and
// search endpoints. ok is false for single entities.
func resultCount(result interface{}) (n int, ok bool) {
	switch r := result.(type) {
	case *model.SearchResult[model.Program]:
		if r == nil {
			return 0, false
		}
		return len(r.Entities), true
	case []model.Mentee:
		return len(r), true
	case []model.Mentor:
		return len(r), true
	}
	return 0, false
}

// newRequest returns a zero value of the request type behind template, so
// concurrent requests never share a bound payload. Req must be a pointer to
// a struct.
func newRequest[Req validation.Validatable](template Req) Req {
	return reflect.New(reflect.TypeOf(template).Elem()).Interface().(Req)
}

// handleRequest is the pipeline shared by every typed endpoint: bind and
// validate, run the handler, write the response. Each phase is logged with
// the request logger and timed on the New Relic transaction.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	response responseWriter,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", response.operation()).
		Str("method", method).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)
	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		txn.AddAttribute("response.status", response.status())
		if n, ok := resultCount(result); ok {
			txn.AddAttribute("response.count", n)
		}
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return response.write(c, result)
}

// Handle registers a typed endpoint answering with JSON and status.
//
//	g.POST("", handler.Handle(h.Handler, h.CreateProgram, http.StatusCreated, &CreateProgramRequest{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, jsonResponse(status))
	}
}

// HandleNoContent registers a typed endpoint answering with status and no body.
func HandleNoContent[Req validation.Validatable](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return nil, handler(c, req)
		}, noContentResponse(status))
	}
}
