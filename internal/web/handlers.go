package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/contacts/internal/core"
)

// contactRequest is the body of create and update calls.
type contactRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Phonenumber *string `json:"phonenumber"`
	City        *string `json:"city"`
	Birthdate   string  `json:"birthdate"`
}

func (req contactRequest) toContact() *core.Contact {
	return &core.Contact{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phonenumber: core.OptionalString(core.StringValue(req.Phonenumber)),
		City:        core.OptionalString(core.StringValue(req.City)),
		Birthdate:   core.ParseBirthdate(req.Birthdate),
	}
}

// contactResponse renders birthdates as YYYY-MM-DD.
type contactResponse struct {
	ContactID   core.ContactID `json:"contactId"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Email       string         `json:"email"`
	Phonenumber *string        `json:"phonenumber"`
	City        *string        `json:"city"`
	Birthdate   *string        `json:"birthdate"`
}

func newContactResponse(c *core.Contact) contactResponse {
	resp := contactResponse{
		ContactID:   c.ContactID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phonenumber: c.Phonenumber,
		City:        c.City,
	}
	if d := core.FormatBirthdate(c.Birthdate); d != "" {
		resp.Birthdate = &d
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	s.metrics.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, newContactResponse(c))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := contactIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	c, err := s.store.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newContactResponse(c))
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	req, err := decodeContact(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	c := req.toContact()
	if _, err := s.store.Create(r.Context(), c); err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/contacts/"+c.ContactID.String())
	writeJSON(w, r, http.StatusCreated, newContactResponse(c))
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := contactIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	req, err := decodeContact(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	c := req.toContact()
	c.ContactID = id
	ok, err := s.store.Update(r.Context(), c)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !ok {
		respondError(w, r, fmt.Errorf("update %s: %w", id, core.ErrNotFound))
		return
	}
	writeJSON(w, r, http.StatusOK, newContactResponse(c))
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := contactIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ok, err := s.store.Delete(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !ok {
		respondError(w, r, fmt.Errorf("delete %s: %w", id, core.ErrNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImport imports the CSV request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	res, err := s.exchange.ImportFrom(r.Context(), body)
	if err != nil {
		if res != nil {
			// Partial counts travel in headers; the body carries the error.
			w.Header().Set("X-Imported", fmt.Sprint(res.Imported))
			w.Header().Set("X-Skipped", fmt.Sprint(res.Skipped))
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleImportStatus reports whether an import is running.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.exchange.ImportStatus())
}

// handleExport streams every contact as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("contacts-%s.csv", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := s.exchange.ExportTo(r.Context(), w); err != nil {
		// Headers may already be sent; the error is logged either way.
		respondError(w, r, err)
	}
}

func contactIDParam(r *http.Request) (core.ContactID, error) {
	raw := chi.URLParam(r, "id")
	id, err := core.ParseContactID(raw)
	if err != nil {
		return 0, invalidInput("contact id %q is not a number", raw)
	}
	return id, nil
}

func decodeContact(r *http.Request) (contactRequest, error) {
	var req contactRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, invalidInput("decode contact: %v", err)
	}
	return req, nil
}
