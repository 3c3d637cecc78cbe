package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/sipcall/internal/app/directory"
	"github.com/PabloGalante/sipcall/internal/app/snapshot"
	"github.com/PabloGalante/sipcall/internal/domain"
)

// GET /contacts/watch?q=
//
// Streams the contacts list as server-sent events. Every refresh triggered
// by any client (GET /contacts) is pushed here, so a second screen stays in
// sync without polling.
func (s *Server) handleWatchContacts(c echo.Context) error {
	q := c.QueryParam("q")
	return streamSnapshots(c, s.contactsView, func(snap snapshot.Snapshot[*domain.Contact]) any {
		return contactsBody(snap, q)
	})
}

// GET /history/watch?filter=all|missed&q=
func (s *Server) handleWatchHistory(c echo.Context) error {
	f, err := historyFilter(c)
	if err != nil {
		return err
	}
	return streamSnapshots(c, s.historyView, func(snap snapshot.Snapshot[*domain.CallRecord]) any {
		return historyBody(snap, f)
	})
}

// streamSnapshots writes the last known snapshot (if any) and then every
// refreshed one until the client goes away. A slow client only ever gets the
// newest snapshot.
func streamSnapshots[T any](c echo.Context, view *snapshot.Refresher[T], render func(snapshot.Snapshot[T]) any) error {
	// subscribe before reading Last so no refresh falls in between
	updates, cancel := view.Subscribe()
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	send := func(snap snapshot.Snapshot[T]) error {
		data, err := json.Marshal(render(snap))
		if err != nil {
			return fmt.Errorf("encode %T snapshot: %w", snap, err)
		}
		if _, err := fmt.Fprintf(res, "event: snapshot\ndata: %s\n\n", data); err != nil {
			return err
		}
		res.Flush()
		return nil
	}

	if last := view.Last(); !last.FetchedAt.IsZero() {
		if err := send(last); err != nil {
			return err
		}
	}

	done := ctxOf(c).Done()
	for {
		select {
		case <-done:
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if err := send(snap); err != nil {
				return err
			}
		}
	}
}

func contactsBody(snap snapshot.Snapshot[*domain.Contact], q string) listContactsResponse {
	return listContactsResponse{
		Contacts: toContactsResponse(directory.Search(snap.Items, q)),
		Stale:    snap.Stale,
		Warning:  warningText(snap.Warning),
	}
}
