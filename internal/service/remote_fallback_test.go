package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/intelligence"
	"github.com/alexanderramin/dayroute/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ollamaService wires a VariantService to an Ollama test server through
// the real suggester and client.
func ollamaService(t *testing.T, handler http.HandlerFunc, opts ...VariantOption) *VariantService {
	t.Helper()
	srv := newHTTPTestServer(t, handler)
	t.Cleanup(srv.Close)

	cfg := llm.DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = srv.URL
	client := llm.NewOllamaClient(cfg, llm.NoopObserver{})
	opts = append(opts, WithSuggestionProvider(intelligence.NewRouteSuggester(client)))
	return seededService(t, 21, opts...)
}

func replying(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"model": "llama3.2", "response": text, "done": true})
	}
}

func TestGenerate_OllamaRoundTrip(t *testing.T) {
	answer := `{"variants":[{"name":"Quick","selectedEvents":[1,4,3],
		"plannedTimes":["09:00","10:50","12:20"],"travelTimes":[0,20,20],"score":91}]}`
	svc := ollamaService(t, replying(answer))

	resp, err := svc.Generate(context.Background(), festivalRequest(festival()))
	require.NoError(t, err)
	requireWellFormed(t, resp, festival())
	assert.Equal(t, domain.SourceRemote, resp.Source)

	short := variantByStrategy(t, resp, domain.StrategyShort)
	assert.Equal(t, "Quick", short.Name)
	assert.Equal(t, domain.SourceRemote, short.Source)
}

func TestGenerate_OllamaGarbageFallsBack(t *testing.T) {
	for name, text := range map[string]string{
		"prose":          "Sure! Here are some lovely routes for you.",
		"truncated json": `{"variants":[{"name":"Quick","selectedEvents":[1,4`,
		"empty variants": `{"variants":[]}`,
		"bad time":       `{"variants":[{"selectedEvents":[1],"plannedTimes":["25:99"],"travelTimes":[0]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := ollamaService(t, replying(text))

			resp, err := svc.Generate(context.Background(), festivalRequest(festival()))
			require.NoError(t, err)
			requireWellFormed(t, resp, festival())
			assert.Equal(t, domain.SourceLocal, resp.Source)
			assert.NotEmpty(t, resp.FallbackReason)
		})
	}
}

func TestGenerate_OllamaServerErrorFallsBack(t *testing.T) {
	svc := ollamaService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	resp, err := svc.Generate(context.Background(), festivalRequest(festival()))
	require.NoError(t, err)
	requireWellFormed(t, resp, festival())
	assert.Equal(t, domain.SourceLocal, resp.Source)
}

func TestGenerate_OllamaPastTimeoutFallsBack(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Second):
		case <-r.Context().Done():
			return
		}
		replying(`{"variants":[]}`)(w, r)
	}
	svc := ollamaService(t, slow, WithRemoteTimeout(100*time.Millisecond))

	start := time.Now()
	resp, err := svc.Generate(context.Background(), festivalRequest(festival()))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	requireWellFormed(t, resp, festival())
	assert.Equal(t, domain.SourceLocal, resp.Source)
	assert.Contains(t, resp.FallbackReason, "timed out")
}
