package intelligence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/llm"
)

// newHTTPTestServer skips the test when the sandbox forbids listening.
func newHTTPTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP integration test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(handler)
	}()
	return srv
}

// ollamaReplying serves text as the model response.
func ollamaReplying(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"model": "test-model", "response": text, "done": true})
	}
}

func enabledConfig(endpoint string) llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	cfg.Model = "test-model"
	return cfg
}

// fakeClient returns a canned answer or error without HTTP.
type fakeClient struct {
	text  string
	err   error
	calls int
	last  llm.GenerateRequest
}

func (f *fakeClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text, Model: "fake"}, nil
}

func (f *fakeClient) Available(context.Context) bool { return f.err == nil }

func sampleCandidates() []domain.Candidate {
	pin := domain.MustClock("13:00")
	return []domain.Candidate{
		{Event: domain.Event{ID: "1", Title: "Headliner", Time: domain.MustClock("12:00"), Duration: 90, Location: "Main Stage", Category: domain.CategoryMusic, Popularity: 95}},
		{Event: domain.Event{ID: "2", Title: "Pottery", Time: domain.MustClock("10:00"), Duration: 60, Location: "Creative Workshop", Category: domain.CategoryWorkshop, Popularity: 80}},
		{Event: domain.Event{ID: "3", Title: "Shorts", Time: domain.MustClock("14:00"), Duration: 90, Location: "Tent 2", Category: domain.CategoryCinema, Popularity: 85}, Pin: &pin},
	}
}
