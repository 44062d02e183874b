package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dsmirnov/drivebox/internal/common"
)

// maxMultipartMemory bounds how much of an upload is held in memory before
// net/http spills the rest to a temp file.
const maxMultipartMemory = 32 << 20

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps the error taxonomy onto status codes. Service
// errors carry no internals, so the detail strings stay generic.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrConflict):
		writeError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, common.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrInvalid):
		writeError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, common.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Temporarily unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := s.users.Register(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, common.ErrConflict) {
			writeError(w, http.StatusConflict, "Email already exists")
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	id, err := s.files.CreateFolder(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Folder created",
		"id":      id,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	defer file.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	folder := r.FormValue("folder")

	id, err := s.files.Upload(r.Context(), fh.Filename, contentType, file, fh.Size, folder)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	subject, _ := SubjectFromContext(r.Context())
	s.logger.Debug(r.Context(), "upload accepted", "subject", subject, "node_id", id)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Uploaded successfully",
		"id":      id,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")

	listed, err := s.files.List(r.Context(), folder)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listed)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rc, node, err := s.files.Download(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", node.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", node.Filename))

	// Stream straight to the response; nothing buffers the whole blob.
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error(r.Context(), "download stream aborted", "node_id", id, "error", err)
	}
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	newName := r.URL.Query().Get("new_name")

	if err := s.files.Rename(r.Context(), id, newName); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Renamed successfully"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.files.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
}
