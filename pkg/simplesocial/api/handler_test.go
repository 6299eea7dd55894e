package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-social/pkg/simplesocial"
	"github.com/tendant/simple-social/pkg/simplesocial/api"
	memoryrepo "github.com/tendant/simple-social/pkg/simplesocial/repo/memory"
)

func setupTestServer(t *testing.T) (*httptest.Server, simplesocial.Service) {
	t.Helper()

	svc, err := simplesocial.New(simplesocial.WithRepository(memoryrepo.New()))
	require.NoError(t, err)

	server := httptest.NewServer(api.NewHandler(svc).Routes())
	t.Cleanup(server.Close)
	return server, svc
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestStageContentEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/content/stage", simplesocial.StageContentRequest{
		UserID: "user-1",
		Item: simplesocial.RawContentItem{
			Type:     simplesocial.ContentTypeClip,
			Title:    "API test clip",
			Duration: 45,
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var staged simplesocial.StagedContent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&staged))
	assert.Equal(t, "API test clip", staged.Title)
	assert.NotEmpty(t, staged.Platforms)
	assert.NotEmpty(t, staged.PlatformContent)
}

func TestStageContentEndpointBadJSON(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Post(server.URL+"/content/stage", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStageContentEndpointValidationFailure(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/content/stage", simplesocial.StageContentRequest{
		Item: simplesocial.RawContentItem{
			Type:     simplesocial.ContentTypeClip,
			Title:    "Too long for tiktok",
			Duration: 700,
		},
		Platforms: []simplesocial.Platform{simplesocial.PlatformTikTok},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestStageBatchEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/content/stage-batch", simplesocial.StageBatchRequest{
		UserID: "user-1",
		Items: []simplesocial.RawContentItem{
			{Type: simplesocial.ContentTypeImage, Title: "first"},
			{Type: simplesocial.ContentTypeBlog, Title: "second"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.StageBatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 2)
	for _, result := range body.Results {
		assert.Empty(t, result.Error)
		require.NotNil(t, result.Staged)
	}
}

func TestRegenerateEndpoint(t *testing.T) {
	server, svc := setupTestServer(t)

	staged, err := svc.StageContent(context.Background(), simplesocial.StageContentRequest{
		Item: simplesocial.RawContentItem{Type: simplesocial.ContentTypeImage, Title: "Original"},
	})
	require.NoError(t, err)

	resp := postJSON(t, server.URL+"/content/regenerate", simplesocial.RegenerateRequest{
		Content:  staged,
		Item:     simplesocial.RawContentItem{Type: simplesocial.ContentTypeImage, Title: "Original"},
		Platform: simplesocial.PlatformInstagram,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated simplesocial.StagedContent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, staged.ID, updated.ID)
	assert.Contains(t, updated.PlatformContent, simplesocial.PlatformInstagram)
}

func TestScheduleEndpoint(t *testing.T) {
	server, svc := setupTestServer(t)

	staged, err := svc.StageContent(context.Background(), simplesocial.StageContentRequest{
		Item: simplesocial.RawContentItem{Type: simplesocial.ContentTypeBlog, Title: "To schedule"},
	})
	require.NoError(t, err)

	resp := postJSON(t, server.URL+"/schedule", simplesocial.ScheduleContentRequest{
		Items: []*simplesocial.StagedContent{staged},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result simplesocial.ScheduleResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Scheduled, 1)
	assert.Equal(t, "To schedule", result.Scheduled[0].Content.Title)
	assert.False(t, result.Scheduled[0].ScheduledAt.IsZero())
}

func TestScheduleEndpointNoItems(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/schedule", simplesocial.ScheduleContentRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScheduleEndpointInvalidPreferences(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/schedule", simplesocial.ScheduleContentRequest{
		Items: []*simplesocial.StagedContent{
			{Type: simplesocial.ContentTypeImage, Title: "item"},
		},
		Preferences: simplesocial.SchedulePreferences{Timezone: "Mars/Olympus"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSuggestHashtagsEndpoint(t *testing.T) {
	server, svc := setupTestServer(t)

	staged, err := svc.StageContent(context.Background(), simplesocial.StageContentRequest{
		Item: simplesocial.RawContentItem{Type: simplesocial.ContentTypeClip, Title: "Tagged", Duration: 30},
	})
	require.NoError(t, err)

	resp := postJSON(t, server.URL+"/hashtags/suggest", api.SuggestHashtagsRequest{Content: staged})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.SuggestHashtagsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Hashtags)
	assert.LessOrEqual(t, len(body.Hashtags), 15)
}

func TestSuggestHashtagsEndpointMissingContent(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/hashtags/suggest", api.SuggestHashtagsRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlatformLimitsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/platforms/instagram/limits")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var limits simplesocial.PlatformLimits
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&limits))
	assert.Equal(t, 2200, limits.CaptionLength)
	assert.Equal(t, 30, limits.HashtagLimit)
}

func TestPlatformLimitsEndpointUnknown(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/platforms/myspace/limits")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
