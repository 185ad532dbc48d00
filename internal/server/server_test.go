package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/plant-pal/internal/ai"
	"github.com/xaenox/plant-pal/internal/expert"
	"github.com/xaenox/plant-pal/internal/models"
	"github.com/xaenox/plant-pal/internal/storage"
)

// fakeAI stands in for the gateway on both the identify and the expert
// service seams.
type fakeAI struct {
	identification *models.IdentificationResult
	guide          *models.CareGuide
	reply          string
	err            error
}

func (f *fakeAI) IdentifyByName(ctx context.Context, name string) (*models.IdentificationResult, error) {
	return f.identification, f.err
}

func (f *fakeAI) IdentifyByImage(ctx context.Context, image []byte, mimeType string) (*models.IdentificationResult, error) {
	return f.identification, f.err
}

func (f *fakeAI) GenerateCareGuide(ctx context.Context, commonName, scientificName string) (*models.CareGuide, error) {
	return f.guide, f.err
}

func (f *fakeAI) Converse(ctx context.Context, msgs []ai.Message) (string, error) {
	return f.reply, f.err
}

func newTestServer(t *testing.T, store storage.Storage, gateway *fakeAI) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	srv := New(store, gateway, expert.NewService(store, gateway, logger), logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestIdentifyByNameEndpoint(t *testing.T) {
	gateway := &fakeAI{identification: &models.IdentificationResult{
		Identified: true,
		CommonName: "Monstera",
		Confidence: 95,
	}}
	ts := newTestServer(t, storage.NewMemoryStorage(), gateway)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/identify/by-name", map[string]string{"name": "monstera"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["identified"])
	assert.Equal(t, "Monstera", data["commonName"])
}

func TestIdentifyByNameMissingName(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStorage(), &fakeAI{})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/identify/by-name", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "name")
}

func TestIdentifyByImageMissingImage(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStorage(), &fakeAI{})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/identify/by-image", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIdentifyByImageBadBase64(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStorage(), &fakeAI{})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/identify/by-image", map[string]string{"image": "not base64!!"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIdentifyProviderDown(t *testing.T) {
	gateway := &fakeAI{err: &providerDown{}}
	ts := newTestServer(t, storage.NewMemoryStorage(), gateway)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/identify/by-name", map[string]string{"name": "monstera"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

type providerDown struct{}

func (p *providerDown) Error() string { return "provider down" }

func TestCareGuideMissingPlantName(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStorage(), &fakeAI{})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/care-guide/generate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCareGuideGenerateAndCache(t *testing.T) {
	store := storage.NewMemoryStorage()
	plant := &models.Plant{UserID: "u1", PlantName: "Monstera"}
	require.NoError(t, store.CreatePlant(context.Background(), plant))

	gateway := &fakeAI{guide: &models.CareGuide{Difficulty: "Beginner"}}
	ts := newTestServer(t, store, gateway)

	req := map[string]string{"plantName": "Monstera", "plantId": plant.ID}

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/care-guide/generate", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["cached"])

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/care-guide/generate", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["cached"])
}

func TestChatMessageEndpoint(t *testing.T) {
	store := storage.NewMemoryStorage()
	plant := &models.Plant{
		UserID:    "u1",
		PlantName: "Monstera",
		CreatedAt: time.Now().Add(-7 * 24 * time.Hour),
	}
	require.NoError(t, store.CreatePlant(context.Background(), plant))

	gateway := &fakeAI{reply: "Sounds healthy to me."}
	ts := newTestServer(t, store, gateway)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/chat/"+plant.ID+"/message",
		map[string]string{"message": "New leaf today!", "userId": "u1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sounds healthy to me.", body["response"])
	assert.Equal(t, float64(7), body["daysSinceAdded"])

	// History now holds the persisted pair.
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/chat/"+plant.ID+"/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := body["data"].([]any)
	require.Len(t, history, 2)

	// Bulk clear wipes it.
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/chat/"+plant.ID+"/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = doJSON(t, http.MethodGet, ts.URL+"/api/chat/"+plant.ID+"/history", nil)
	assert.Empty(t, body["data"])
}

func TestChatMessageUnknownPlant(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStorage(), &fakeAI{reply: "hi"})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/chat/ghost/message",
		map[string]string{"message": "hello", "userId": "u1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatMessageMissingFields(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStorage(), &fakeAI{})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/chat/p1/message", map[string]string{"userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/chat/p1/message", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlantEndpoints(t *testing.T) {
	store := storage.NewMemoryStorage()
	ts := newTestServer(t, store, &fakeAI{})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/plants", map[string]string{"plantName": "Monstera"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "userId required")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/plants",
		map[string]string{"userId": "u1", "plantName": "Monstera", "scientificName": "Monstera deliciosa"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := body["data"].(map[string]any)
	plantID := created["id"].(string)
	assert.Equal(t, "name", created["identified_via"])

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/plants/user/u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["data"].([]any), 1)

	resp, body = doJSON(t, http.MethodPatch, ts.URL+"/api/plants/"+plantID,
		map[string]string{"family": "Araceae"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Araceae", body["data"].(map[string]any)["family"])

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/plants/"+plantID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/plants/"+plantID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlantDaysGrowing(t *testing.T) {
	store := storage.NewMemoryStorage()
	plant := &models.Plant{
		UserID:    "u1",
		PlantName: "Monstera",
		CreatedAt: time.Now().Add(-float64AsDuration(3.5 * 24)),
	}
	require.NoError(t, store.CreatePlant(context.Background(), plant))
	ts := newTestServer(t, store, &fakeAI{})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/plants/"+plant.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// 3.5 elapsed days floors to 3.
	assert.Equal(t, float64(3), body["data"].(map[string]any)["days_growing"])
}

func float64AsDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

func TestJournalEndpoints(t *testing.T) {
	store := storage.NewMemoryStorage()
	ts := newTestServer(t, store, &fakeAI{})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/journal", map[string]string{"note": "no ids"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/journal",
		map[string]string{"plantId": "p1", "userId": "u1", "note": "first sprout"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entryID := body["data"].(map[string]any)["id"].(string)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/journal/p1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["data"].([]any), 1)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/journal/"+entryID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = doJSON(t, http.MethodGet, ts.URL+"/api/journal/p1", nil)
	assert.Empty(t, body["data"])
}

func TestNotificationEndpoints(t *testing.T) {
	store := storage.NewMemoryStorage()
	notifications := []models.Notification{
		{PlantID: "p1", UserID: "u1", Type: models.NotificationWatering, Message: "water me"},
	}
	require.NoError(t, store.InsertNotifications(context.Background(), notifications))
	ts := newTestServer(t, store, &fakeAI{})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/notifications/user/u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, false, list[0].(map[string]any)["read"])

	resp, _ = doJSON(t, http.MethodPatch,
		fmt.Sprintf("%s/api/notifications/%s/read", ts.URL, notifications[0].ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/api/notifications/user/u1/read-all", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = doJSON(t, http.MethodGet, ts.URL+"/api/notifications/user/u1", nil)
	assert.Equal(t, true, body["data"].([]any)[0].(map[string]any)["read"])
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStorage(), &fakeAI{})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
