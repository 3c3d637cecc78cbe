package httpadapter

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/PabloGalante/sipcall/internal/app/callsession"
	"github.com/PabloGalante/sipcall/internal/app/directory"
	"github.com/PabloGalante/sipcall/internal/app/history"
	"github.com/PabloGalante/sipcall/internal/app/snapshot"
	"github.com/PabloGalante/sipcall/internal/domain"
	"github.com/PabloGalante/sipcall/internal/observability"
)

type Server struct {
	directory *directory.Service
	history   *history.Service
	calls     *callsession.Manager

	contactsView *snapshot.Refresher[*domain.Contact]
	historyView  *snapshot.Refresher[*domain.CallRecord]
}

func NewServer(dir *directory.Service, hist *history.Service, calls *callsession.Manager) http.Handler {
	s := &Server{
		directory:    dir,
		history:      hist,
		calls:        calls,
		contactsView: snapshot.NewRefresher[*domain.Contact]("contacts", dir.List),
		historyView:  snapshot.NewRefresher[*domain.CallRecord]("history", hist.List),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(withRequestID, withLogging, middleware.Recover(), withCORS())

	e.GET("/healthz", s.handleHealthz)

	// /contacts
	e.POST("/contacts", s.handleCreateContact)
	e.GET("/contacts", s.handleListContacts)
	e.GET("/contacts/lookup", s.handleLookupContact)
	e.GET("/contacts/watch", s.handleWatchContacts)
	e.GET("/contacts/:id", s.handleGetContact)
	e.PATCH("/contacts/:id", s.handleUpdateContact)
	e.DELETE("/contacts/:id", s.handleDeleteContact)

	// /history
	e.GET("/history", s.handleListHistory)
	e.GET("/history/watch", s.handleWatchHistory)
	e.DELETE("/history/:id", s.handleDeleteHistory)

	// /calls
	e.POST("/calls/outgoing", s.handleStartOutgoing)
	e.POST("/calls/incoming", s.handleReceiveIncoming)
	e.GET("/calls/active", s.handleGetActiveCall)
	e.POST("/calls/active/:action", s.handleCallAction)

	return e
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionActive), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusFor(err)
	msg := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code == http.StatusInternalServerError {
		observability.LoggerFromContext(c.Request().Context()).Error("request failed", "error", err)
		msg = "internal server error"
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Error: msg})
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func ctxOf(c echo.Context) context.Context {
	return c.Request().Context()
}
