package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

func uploadPhoto(t *testing.T, env *testEnv, sessionID, photoType string) *domain.PatientPhoto {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/photo-manager/photos", map[string]any{
		"patientId":   "pat-1",
		"patientName": "Asha Rao",
		"sessionId":   sessionID,
		"type":        photoType,
		"procedure":   "Chemical Peel",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	photo := decodeBody[domain.PatientPhoto](t, w)
	return &photo
}

func TestUploadPhoto_CreatesAndBumpsSession(t *testing.T) {
	env := newTestEnv(t)

	photo := uploadPhoto(t, env, "sess-1", "before")
	assert.Equal(t, "Asha Rao", photo.PatientName)
	assert.Equal(t, today(), photo.SessionDate)
	assert.Equal(t, placeholderImageURL, photo.ImageURL)

	session, err := env.repos.Photos.GetSession(context.Background(), env.client.ID, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, session.BeforeCount)
	assert.Equal(t, 0, session.AfterCount)

	uploadPhoto(t, env, "sess-1", "after")
	session, err = env.repos.Photos.GetSession(context.Background(), env.client.ID, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, session.BeforeCount)
	assert.Equal(t, 1, session.AfterCount)
}

func TestUploadPhoto_RequiredFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/photo-manager/photos", map[string]any{
		"patientId": "pat-1",
		"type":      "before",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Patient ID, session ID, and photo type are required", body["error"])
}

func TestDeletePhoto_RemovesEmptySession(t *testing.T) {
	env := newTestEnv(t)
	photo := uploadPhoto(t, env, "sess-1", "before")

	w := env.do(t, http.MethodDelete, "/api/photo-manager/photos/"+photo.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Photo deleted successfully", body["message"])

	_, err := env.repos.Photos.GetSession(context.Background(), env.client.ID, "sess-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeletePhoto_DecrementsNonEmptySession(t *testing.T) {
	env := newTestEnv(t)
	photo := uploadPhoto(t, env, "sess-1", "before")
	uploadPhoto(t, env, "sess-1", "after")

	w := env.do(t, http.MethodDelete, "/api/photo-manager/photos/"+photo.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	session, err := env.repos.Photos.GetSession(context.Background(), env.client.ID, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, session.BeforeCount)
	assert.Equal(t, 1, session.AfterCount)
}

func TestDeletePhoto_Unknown(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodDelete, "/api/photo-manager/photos/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Photo not found", body["error"])
}

func TestPhotoStats(t *testing.T) {
	env := newTestEnv(t)
	uploadPhoto(t, env, "sess-1", "before")
	uploadPhoto(t, env, "sess-1", "after")
	uploadPhoto(t, env, "sess-2", "before")

	w := env.do(t, http.MethodGet, "/api/photo-manager/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)
	assert.Equal(t, float64(3), stats["totalImages"])
	assert.Equal(t, float64(1), stats["patientsWithPhotos"])
	assert.Equal(t, float64(1), stats["beforeAfterSets"])
	assert.Equal(t, float64(3), stats["uploadedToday"])
}
