package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/petiteannonce/server/internal/server/services"
)

func announceID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// CreateAnnounce accepts either a JSON body or a multipart form with an
// optional single "images" file. The owner is always the authenticated user.
func (s *HTTPServer) CreateAnnounce(w http.ResponseWriter, r *http.Request) {
	callerID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(r.Context(), w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createAnnounceRequest
	var upload *services.ImageUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			s.writeError(r.Context(), w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		parsed, err := createRequestFromForm(r)
		if err != nil {
			s.writeError(r.Context(), w, http.StatusBadRequest, err.Error())
			return
		}
		req = parsed

		file, header, err := r.FormFile("images")
		switch {
		case err == nil:
			defer file.Close()
			contentType := header.Header.Get("Content-Type")
			if !strings.HasPrefix(contentType, "image/") {
				s.writeError(r.Context(), w, http.StatusBadRequest, "only images are allowed")
				return
			}
			upload = &services.ImageUpload{
				FileName:    header.Filename,
				ContentType: contentType,
				Body:        file,
			}
		case errors.Is(err, http.ErrMissingFile):
			// no attachment, nothing to upload
		default:
			s.writeError(r.Context(), w, http.StatusBadRequest, "invalid image field")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(r.Context(), w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := s.validate.Struct(req); err != nil {
		s.writeValidationError(r.Context(), w, validationMessages(err))
		return
	}

	a, err := s.announces.Create(r.Context(), req.toInput(), callerID, upload)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusCreated, a)
}

func createRequestFromForm(r *http.Request) (createAnnounceRequest, error) {
	req := createAnnounceRequest{
		Title:       r.FormValue("title"),
		Type:        r.FormValue("type"),
		Description: r.FormValue("description"),
		City:        r.FormValue("city"),
		Phone:       r.FormValue("phone"),
	}

	if v := r.FormValue("price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("price: not a number")
		}
		req.Price = &n
	}
	if v := r.FormValue("district"); v != "" {
		req.District = &v
	}
	if v := r.FormValue("email"); v != "" {
		req.Email = &v
	}

	return req, nil
}

func (s *HTTPServer) ListAnnounces(w http.ResponseWriter, r *http.Request) {
	result, err := s.announces.List(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, result)
}

func (s *HTTPServer) GetAnnounce(w http.ResponseWriter, r *http.Request) {
	id, err := announceID(r)
	if err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := s.announces.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, a)
}

func (s *HTTPServer) UpdateAnnounce(w http.ResponseWriter, r *http.Request) {
	callerID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(r.Context(), w, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := announceID(r)
	if err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateAnnounceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeValidationError(r.Context(), w, validationMessages(err))
		return
	}

	a, err := s.announces.Update(r.Context(), id, req.toPatch(), callerID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, a)
}

func (s *HTTPServer) DeleteAnnounce(w http.ResponseWriter, r *http.Request) {
	callerID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(r.Context(), w, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := announceID(r)
	if err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid id")
		return
	}

	confirmation, err := s.announces.Delete(r.Context(), id, callerID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": confirmation})
}
