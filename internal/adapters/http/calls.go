package httpadapter

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/sipcall/internal/app/callsession"
	"github.com/PabloGalante/sipcall/internal/domain"
)

func (s *Server) handleStartOutgoing(c echo.Context) error {
	return s.startCall(c, s.calls.StartOutgoing)
}

func (s *Server) handleReceiveIncoming(c echo.Context) error {
	return s.startCall(c, s.calls.ReceiveIncoming)
}

func (s *Server) startCall(c echo.Context, start func(ctx context.Context, phone string) (*callsession.Controller, error)) error {
	var req startCallRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid JSON body")
	}

	ctrl, err := start(ctxOf(c), req.Phone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSessionResponse(ctrl.Snapshot(), ""))
}

func (s *Server) handleGetActiveCall(c echo.Context) error {
	ctrl, err := s.activeCall()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(ctrl.Snapshot(), ""))
}

// POST /calls/active/{connect|accept|reject|cancel|terminate|fail|mute|speaker}
func (s *Server) handleCallAction(c echo.Context) error {
	ctrl, err := s.activeCall()
	if err != nil {
		return err
	}
	ctx := ctxOf(c)

	switch c.Param("action") {
	case "connect":
		err = ctrl.MarkConnected(ctx)
	case "accept":
		err = ctrl.AcceptIncoming(ctx)
	case "reject":
		err = ctrl.RejectIncoming(ctx)
	case "cancel":
		err = ctrl.CancelOutgoing(ctx)
	case "terminate":
		err = ctrl.Terminate(ctx)
	case "fail":
		var req failCallRequest
		if bindErr := c.Bind(&req); bindErr != nil {
			return badRequest("invalid JSON body")
		}
		err = ctrl.Fail(ctx, req.Reason)
	case "mute":
		ctrl.ToggleMute()
	case "speaker":
		ctrl.ToggleSpeaker()
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown call action")
	}
	if err != nil {
		return err
	}

	recordID, _ := ctrl.RecordID()
	return c.JSON(http.StatusOK, toSessionResponse(ctrl.Snapshot(), recordID))
}

func (s *Server) activeCall() (*callsession.Controller, error) {
	ctrl := s.calls.Active()
	if ctrl == nil {
		return nil, domain.NotFound("call session", "active")
	}
	return ctrl, nil
}
