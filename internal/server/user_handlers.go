package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledgerly/ledgerly/internal/finerr"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", user)
}

// handleDeleteAccount removes the account and, through the schema's cascades,
// everything it owns.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.users.Delete(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("account deleted", "user_id", userID)
	writeJSON(w, http.StatusOK, "account deleted", nil)
}

const maxAvatarBytes = 5 << 20

var allowedAvatarExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

func (s *Server) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.avatars == nil {
		writeError(w, finerr.BadRequestf("avatar storage is not configured"))
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, finerr.BadRequestf("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, finerr.BadRequestf("avatar file is required"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAvatarExtensions[ext] {
		writeError(w, finerr.BadRequestf("unsupported avatar format %q", ext))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := s.avatars.UploadAvatar(r.Context(), userID, header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.users.UpdateAvatarURL(r.Context(), userID, url); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "avatar updated", map[string]string{"avatar_url": url})
}
