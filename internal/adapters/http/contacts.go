package httpadapter

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/sipcall/internal/app/directory"
	"github.com/PabloGalante/sipcall/internal/domain"
)

func (s *Server) handleCreateContact(c echo.Context) error {
	var req createContactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid JSON body")
	}

	id, err := s.directory.Create(ctxOf(c), directory.CreateContactInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Company: req.Company,
	})
	if err != nil {
		return err
	}

	contact, err := s.directory.Get(ctxOf(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toContactResponse(contact))
}

// GET /contacts?q=
func (s *Server) handleListContacts(c echo.Context) error {
	snap := s.contactsView.Refresh(ctxOf(c))
	return c.JSON(http.StatusOK, contactsBody(snap, c.QueryParam("q")))
}

// GET /contacts/lookup?phone=
func (s *Server) handleLookupContact(c echo.Context) error {
	phone := c.QueryParam("phone")
	if phone == "" {
		return &domain.ValidationError{Field: "phone", Reason: "must not be blank"}
	}

	contact, err := s.directory.FindByPhone(ctxOf(c), phone)
	if err != nil {
		return err
	}
	if contact == nil {
		return c.JSON(http.StatusOK, lookupResponse{Known: false})
	}

	resp := toContactResponse(contact)
	return c.JSON(http.StatusOK, lookupResponse{Known: true, Contact: &resp})
}

func (s *Server) handleGetContact(c echo.Context) error {
	contact, err := s.directory.Get(ctxOf(c), domain.ContactID(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

func (s *Server) handleUpdateContact(c echo.Context) error {
	var req updateContactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid JSON body")
	}

	id := domain.ContactID(c.Param("id"))
	if err := s.directory.Update(ctxOf(c), id, req.patch()); err != nil {
		return err
	}

	contact, err := s.directory.Get(ctxOf(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

func (s *Server) handleDeleteContact(c echo.Context) error {
	if err := s.directory.Delete(ctxOf(c), domain.ContactID(c.Param("id"))); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
