package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// Image bytes never pass through this service; records carry stock URLs
// until the upload pipeline lands.
const (
	placeholderImageURL = "https://images.pexels.com/photos/3845810/pexels-photo-3845810.jpeg"
	placeholderThumbURL = "https://images.pexels.com/photos/3845810/pexels-photo-3845810.jpeg?auto=compress&w=200"
)

// PhotoHandler manages clinical photo sessions and the before/after
// photo records inside them.
type PhotoHandler struct {
	photos repository.PhotosRepository
	logger *zap.Logger
}

func NewPhotoHandler(photos repository.PhotosRepository, logger *zap.Logger) *PhotoHandler {
	return &PhotoHandler{photos: photos, logger: logger}
}

func (rt *Router) RegisterPhotoRoutes(h *PhotoHandler, guard *Guard) {
	gate := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireModule("photo_manager", "Photo Manager", next)
	}
	rt.Handle("GET /api/photo-manager/photos", gate(h.ListPhotos))
	rt.Handle("POST /api/photo-manager/photos", gate(h.UploadPhoto))
	rt.Handle("DELETE /api/photo-manager/photos/{id}", gate(h.DeletePhoto))
	rt.Handle("GET /api/photo-manager/sessions", gate(h.ListSessions))
	rt.Handle("GET /api/photo-manager/stats", gate(h.Stats))
}

func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	q := r.URL.Query()
	photos, err := h.photos.ListPhotos(r.Context(), tc.ClientID(), repository.PhotoFilters{
		PatientID: filterValue(q.Get("patientId")),
		SessionID: filterValue(q.Get("sessionId")),
		Type:      filterValue(q.Get("type")),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dateFrom := q.Get("dateFrom")
	dateTo := q.Get("dateTo")
	if dateFrom != "" || dateTo != "" {
		filtered := photos[:0]
		for _, p := range photos {
			if dateFrom != "" && p.SessionDate < dateFrom {
				continue
			}
			if dateTo != "" && p.SessionDate > dateTo {
				continue
			}
			filtered = append(filtered, p)
		}
		photos = filtered
	}

	writeJSON(w, http.StatusOK, photos)
}

func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	var req struct {
		PatientID   string `json:"patientId"`
		PatientName string `json:"patientName"`
		SessionID   string `json:"sessionId"`
		Type        string `json:"type"`
		Procedure   string `json:"procedure"`
		DoctorID    string `json:"doctorId"`
		DoctorName  string `json:"doctorName"`
		FileName    string `json:"fileName"`
		FileSize    int64  `json:"fileSize"`
		Notes       string `json:"notes"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PatientID == "" || req.SessionID == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "Patient ID, session ID, and photo type are required")
		return
	}

	session, err := h.photos.GetSession(r.Context(), tc.ClientID(), req.SessionID)
	switch {
	case err == nil:
		bumpSessionCount(session, req.Type, 1)
		if err := h.photos.UpdateSession(r.Context(), session); err != nil {
			writeRepoError(w, err)
			return
		}
	case errors.Is(err, repository.ErrNotFound):
		session = &domain.PhotoSession{
			ID:          req.SessionID,
			ClientID:    tc.ClientID(),
			PatientID:   req.PatientID,
			PatientName: req.PatientName,
			Date:        today(),
			Procedure:   req.Procedure,
			DoctorID:    req.DoctorID,
			DoctorName:  req.DoctorName,
		}
		bumpSessionCount(session, req.Type, 1)
		if session, err = h.photos.CreateSession(r.Context(), session); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.FileName == "" {
		req.FileName = "photo.jpg"
	}
	photo := &domain.PatientPhoto{
		ClientID:     tc.ClientID(),
		PatientID:    req.PatientID,
		PatientName:  session.PatientName,
		SessionID:    session.ID,
		SessionDate:  session.Date,
		Type:         req.Type,
		ImageURL:     placeholderImageURL,
		ThumbnailURL: placeholderThumbURL,
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		UploadedBy:   performedBy(r),
		UploadedAt:   nowRFC3339(),
		Notes:        req.Notes,
		DoctorID:     session.DoctorID,
		DoctorName:   session.DoctorName,
	}
	created, err := h.photos.CreatePhoto(r.Context(), photo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	photo, err := h.photos.GetPhoto(r.Context(), tc.ClientID(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}
	if err := h.photos.DeletePhoto(r.Context(), tc.ClientID(), photo.ID); err != nil {
		writeRepoError(w, err)
		return
	}

	session, err := h.photos.GetSession(r.Context(), tc.ClientID(), photo.SessionID)
	if err == nil {
		bumpSessionCount(session, photo.Type, -1)
		if session.BeforeCount == 0 && session.AfterCount == 0 && session.InProgressCount == 0 {
			if err := h.photos.DeleteSession(r.Context(), tc.ClientID(), session.ID); err != nil {
				h.logger.Warn("empty session cleanup failed", zap.String("session_id", session.ID), zap.Error(err))
			}
		} else if err := h.photos.UpdateSession(r.Context(), session); err != nil {
			h.logger.Warn("session counter update failed", zap.String("session_id", session.ID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo deleted successfully"})
}

func (h *PhotoHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())
	sessions, err := h.photos.ListSessions(r.Context(), tc.ClientID(), filterValue(r.URL.Query().Get("patientId")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *PhotoHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc := tenantFrom(r.Context())

	photos, err := h.photos.ListPhotos(r.Context(), tc.ClientID(), repository.PhotoFilters{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sessions, err := h.photos.ListSessions(r.Context(), tc.ClientID(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	patients := map[string]struct{}{}
	uploadedToday := 0
	for _, p := range photos {
		patients[p.PatientID] = struct{}{}
		if strings.HasPrefix(p.UploadedAt, today()) {
			uploadedToday++
		}
	}
	beforeAfterSets := 0
	for _, s := range sessions {
		if s.BeforeCount > 0 && s.AfterCount > 0 {
			beforeAfterSets++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalImages":        len(photos),
		"patientsWithPhotos": len(patients),
		"beforeAfterSets":    beforeAfterSets,
		"uploadedToday":      uploadedToday,
	})
}

func bumpSessionCount(s *domain.PhotoSession, photoType string, delta int) {
	bump := func(n int) int {
		n += delta
		if n < 0 {
			return 0
		}
		return n
	}
	switch photoType {
	case "before":
		s.BeforeCount = bump(s.BeforeCount)
	case "after":
		s.AfterCount = bump(s.AfterCount)
	default:
		s.InProgressCount = bump(s.InProgressCount)
	}
}
