package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/ats-tailor/internal/db"
	"github.com/jonathan/ats-tailor/internal/server/middleware"
	"github.com/jonathan/ats-tailor/internal/types"
)

// JobsResponse lists saved applications.
type JobsResponse struct {
	Jobs []types.Application `json:"jobs"`
}

// requestIDs returns the authenticated user and, when name is set, the UUID path parameter.
func (s *Server) requestIDs(w http.ResponseWriter, r *http.Request, name string) (userID, id uuid.UUID, ok bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	if name == "" {
		return userID, uuid.Nil, true
	}
	id, err = pathID(r, name)
	if err != nil {
		s.writeError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// writeApplication responds with app, or 404 when the store found nothing.
func (s *Server) writeApplication(w http.ResponseWriter, r *http.Request, status int, id uuid.UUID, app *types.Application, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if app == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "job", ID: id})
		return
	}
	s.jsonResponse(w, status, app)
}

// handleListJobs lists the user's saved applications, most recently updated first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := s.requestIDs(w, r, "")
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = min(n, db.DefaultListLimit)
	}

	apps, err := s.deps.Applications.ListApplications(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, JobsResponse{Jobs: apps})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := s.requestIDs(w, r, "")
	if !ok {
		return
	}
	var req types.SaveApplicationRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	app, err := s.deps.Applications.CreateApplication(r.Context(), userID, db.InputFromRequest(&req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requestIDs(w, r, "id")
	if !ok {
		return
	}
	app, err := s.deps.Applications.GetApplication(r.Context(), userID, id)
	s.writeApplication(w, r, http.StatusOK, id, app, err)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requestIDs(w, r, "id")
	if !ok {
		return
	}
	var req types.SaveApplicationRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.deps.Applications.UpdateApplication(r.Context(), userID, id, db.InputFromRequest(&req))
	s.writeApplication(w, r, http.StatusOK, id, app, err)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requestIDs(w, r, "id")
	if !ok {
		return
	}
	deleted, err := s.deps.Applications.DeleteApplication(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, r, &ErrNotFound{Resource: "job", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDuplicateJob copies an application, including its scores, under a "(Copy)" title.
func (s *Server) handleDuplicateJob(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.requestIDs(w, r, "id")
	if !ok {
		return
	}
	app, err := s.deps.Applications.DuplicateApplication(r.Context(), userID, id)
	s.writeApplication(w, r, http.StatusCreated, id, app, err)
}
