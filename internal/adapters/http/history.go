package httpadapter

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/sipcall/internal/app/history"
	"github.com/PabloGalante/sipcall/internal/app/snapshot"
	"github.com/PabloGalante/sipcall/internal/domain"
)

// GET /history?filter=all|missed&q=
func (s *Server) handleListHistory(c echo.Context) error {
	f, err := historyFilter(c)
	if err != nil {
		return err
	}

	snap := s.historyView.Refresh(ctxOf(c))
	return c.JSON(http.StatusOK, historyBody(snap, f))
}

func historyFilter(c echo.Context) (history.Filter, error) {
	var f history.Filter
	switch c.QueryParam("filter") {
	case "", "all":
	case "missed":
		f.MissedOnly = true
	default:
		return f, &domain.ValidationError{Field: "filter", Reason: "must be all or missed"}
	}
	f.Query = c.QueryParam("q")
	return f, nil
}

func historyBody(snap snapshot.Snapshot[*domain.CallRecord], f history.Filter) listHistoryResponse {
	return listHistoryResponse{
		Records:     toCallRecordsResponse(f.Apply(snap.Items)),
		MissedCount: history.MissedCount(snap.Items),
		Stale:       snap.Stale,
		Warning:     warningText(snap.Warning),
	}
}

func (s *Server) handleDeleteHistory(c echo.Context) error {
	if err := s.history.DeleteOne(ctxOf(c), domain.CallRecordID(c.Param("id"))); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
