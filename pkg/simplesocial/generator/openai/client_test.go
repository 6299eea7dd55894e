package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-social/pkg/simplesocial"
	"github.com/tendant/simple-social/pkg/simplesocial/generator/openai"
)

// chatServer fakes an OpenAI-compatible chat completions endpoint that
// always answers with the given message content.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestClient(url string) *openai.Client {
	return openai.New(openai.Config{
		APIKey: "test-key",
		APIURL: url,
		Model:  "test-model",
	})
}

func TestGenerateCaption(t *testing.T) {
	server := chatServer(t, `{"caption":"Check out our new release","hashtags":["release","golang"],"cta":"Watch now"}`)
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GenerateCaption(context.Background(), simplesocial.CaptionRequest{
		ContentType: simplesocial.ContentTypeClip,
		Platform:    simplesocial.PlatformYouTube,
		Title:       "New release",
	})
	require.NoError(t, err)

	assert.Equal(t, "Check out our new release", result.Caption)
	assert.Equal(t, []string{"release", "golang"}, result.Hashtags)
	assert.Equal(t, "Watch now", result.CTA)
}

func TestGenerateCaptionMalformedResponse(t *testing.T) {
	server := chatServer(t, "sorry, plain prose instead of JSON")
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateCaption(context.Background(), simplesocial.CaptionRequest{
		Platform: simplesocial.PlatformX,
		Title:    "Oops",
	})
	assert.ErrorIs(t, err, simplesocial.ErrGenerationUnavailable)
}

func TestGenerateCaptionMissingCaptionField(t *testing.T) {
	server := chatServer(t, `{"hashtags":["only","tags"]}`)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateCaption(context.Background(), simplesocial.CaptionRequest{
		Platform: simplesocial.PlatformX,
		Title:    "Oops",
	})
	assert.ErrorIs(t, err, simplesocial.ErrGenerationUnavailable)
}

func TestGenerateCaptionHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateCaption(context.Background(), simplesocial.CaptionRequest{
		Platform: simplesocial.PlatformX,
		Title:    "Denied",
	})
	assert.ErrorIs(t, err, simplesocial.ErrGenerationUnavailable)
}

func TestGenerateCaptionRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"caption":"second attempt"}`}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GenerateCaption(context.Background(), simplesocial.CaptionRequest{
		Platform: simplesocial.PlatformX,
		Title:    "Flaky",
	})
	require.NoError(t, err)

	assert.Equal(t, "second attempt", result.Caption)
	assert.Equal(t, 2, attempts)
}

func TestGenerateCaptionContextCancelled(t *testing.T) {
	server := chatServer(t, `{"caption":"never delivered"}`)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.GenerateCaption(ctx, simplesocial.CaptionRequest{
		Platform: simplesocial.PlatformX,
		Title:    "Cancelled",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, simplesocial.ErrGenerationUnavailable)
}

func TestSuggestSlots(t *testing.T) {
	server := chatServer(t, `{"slots":[
		{"hour":17,"minute":30,"reason":"Evening peak","score":88},
		{"hour":9,"minute":0,"reason":"Morning check-in","score":75}
	]}`)
	defer server.Close()

	client := newTestClient(server.URL)
	slots, err := client.SuggestSlots(context.Background(), simplesocial.AdvisoryRequest{
		ItemCount:    3,
		ContentTypes: []simplesocial.ContentType{simplesocial.ContentTypeClip},
		Platforms:    []simplesocial.Platform{simplesocial.PlatformInstagram},
		Timezone:     "UTC",
	})
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, simplesocial.TimeSlot{Hour: 17, Minute: 30, Reason: "Evening peak", Score: 88}, slots[0])
	assert.Equal(t, simplesocial.TimeSlot{Hour: 9, Minute: 0, Reason: "Morning check-in", Score: 75}, slots[1])
}

func TestSuggestSlotsEmptyResponse(t *testing.T) {
	server := chatServer(t, `{"slots":[]}`)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SuggestSlots(context.Background(), simplesocial.AdvisoryRequest{ItemCount: 1})
	assert.ErrorIs(t, err, simplesocial.ErrGenerationUnavailable)
}
