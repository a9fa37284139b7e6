package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerly/ledgerly/internal/auth"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
	"github.com/ledgerly/ledgerly/internal/premium"
)

func userIDFrom(r *http.Request) (int64, error) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok {
		return 0, finerr.ErrUnauthorized
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, finerr.BadRequestf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// monthYear reads the month and year query params, defaulting to the current
// UTC month when absent.
func monthYear(r *http.Request) (int, int, error) {
	now := time.Now().UTC()
	month, year := int(now.Month()), now.Year()

	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, finerr.BadRequestf("invalid month %q", v)
		}
		month = m
	}
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, finerr.BadRequestf("invalid year %q", v)
		}
		year = y
	}
	return month, year, nil
}

func queryInt(r *http.Request, key, fallback string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		v = fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, finerr.BadRequestf("invalid %s %q", key, v)
	}
	return n, nil
}

// requireFeature loads the calling user and checks the premium gate.
func (s *Server) requireFeature(r *http.Request, feature premium.Feature) (*models.User, error) {
	userID, err := userIDFrom(r)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	if !s.gate.HasFeatureAccess(user, feature) {
		return nil, finerr.ErrForbidden
	}
	return user, nil
}
