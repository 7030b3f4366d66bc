package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x01, 0x02, 0x03}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return client, srv
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Options{APIKey: "  "})
	assert.ErrorContains(t, err, "API key is required")
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Options{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash-image", client.Model())
}

func TestEditImageSuccess(t *testing.T) {
	var captured geminiGenerateContentRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash-image:generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := geminiGenerateContentResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{
				InlineData: &geminiInlineData{
					MimeType: "image/png",
					Data:     base64.StdEncoding.EncodeToString(pngBytes),
				},
			}}},
		}}}
		json.NewEncoder(w).Encode(resp)
	})

	img, err := client.EditImage(context.Background(), EditRequest{
		Instruction: "Pose: arms crossed",
		Source:      Image{Data: pngBytes, MediaType: "image/png"},
		References:  []Image{{Data: pngBytes, MediaType: "image/jpeg"}},
	})
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, "image/png", img.MediaType)

	// Source first, references next, instruction text last.
	require.Len(t, captured.Contents, 1)
	parts := captured.Contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "image/png", parts[0].InlineData.MimeType)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MimeType)
	assert.Equal(t, "Pose: arms crossed", parts[2].Text)
}

func TestEditImageDefaultsResponseMediaType(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		resp := geminiGenerateContentResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{
				InlineData: &geminiInlineData{Data: base64.StdEncoding.EncodeToString(pngBytes)},
			}}},
		}}}
		json.NewEncoder(w).Encode(resp)
	})

	img, err := client.EditImage(context.Background(), EditRequest{
		Source: Image{Data: pngBytes, MediaType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)
}

func TestEditImageAPIErrorKeptVerbatim(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 500, "message": "model overloaded"},
		})
	})

	_, err := client.EditImage(context.Background(), EditRequest{
		Source: Image{Data: pngBytes, MediaType: "image/png"},
	})
	require.Error(t, err)
	assert.Equal(t, "gemini status 500: model overloaded", err.Error())
}

func TestEditImageNonJSONError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable\n"))
	})

	_, err := client.EditImage(context.Background(), EditRequest{
		Source: Image{Data: pngBytes, MediaType: "image/png"},
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "gemini status 502"), err.Error())
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestEditImageNoImageContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		resp := geminiGenerateContentResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: "cannot comply"}}},
		}}}
		json.NewEncoder(w).Encode(resp)
	})

	_, err := client.EditImage(context.Background(), EditRequest{
		Source: Image{Data: pngBytes, MediaType: "image/png"},
	})
	assert.ErrorContains(t, err, "no image content")
}
