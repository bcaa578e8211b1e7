package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ai "github.com/spetersoncode/aiagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), "test-key", srv.URL, "gemini-2.0-flash", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestClient_Chat(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi there"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":2},"modelVersion":"gemini-2.0-flash-001"}`)
	})

	resp, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("Hello")}, ai.WithSystem("be brief"))
	require.NoError(t, err)

	assert.Equal(t, "Hi there", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, "gemini-2.0-flash-001", resp.Model)
	assert.Equal(t, ai.Usage{InputTokens: 4, OutputTokens: 2}, resp.Usage)
	assert.Contains(t, body, "systemInstruction")
}

func TestClient_ChatRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := c.Chat(context.Background(), []ai.Message{ai.NewUserMessage("Hello")})
	require.Error(t, err)
	assert.Equal(t, ai.KindQuota, ai.KindOf(err))
	assert.Equal(t, 429, ai.StatusCodeOf(err))
	assert.True(t, ai.IsTransient(err))
}

func TestClient_ChatStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":streamGenerateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"Hi\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\" there\"}]},\"finishReason\":\"STOP\"}]}\n\n")
	})

	ch, err := c.ChatStream(context.Background(), []ai.Message{ai.NewUserMessage("Hello")})
	require.NoError(t, err)

	var deltas []string
	var final *ai.Response
	for ev := range ch {
		require.NoError(t, ev.Err)
		if ev.Delta != "" {
			deltas = append(deltas, ev.Delta)
		}
		if ev.Done {
			final = ev.Response
		}
	}
	assert.Equal(t, []string{"Hi", " there"}, deltas)
	require.NotNil(t, final)
	assert.Equal(t, "Hi there", final.Content)
	assert.Equal(t, "STOP", final.FinishReason)
}

func TestClient_ChatStreamFailsBeforeFirstDelta(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"Too many requests","status":"RESOURCE_EXHAUSTED"}}`)
	})

	ch, err := c.ChatStream(context.Background(), []ai.Message{ai.NewUserMessage("Hello")})
	assert.Nil(t, ch)
	require.Error(t, err)
	assert.Equal(t, ai.KindRateLimit, ai.KindOf(err))
}
