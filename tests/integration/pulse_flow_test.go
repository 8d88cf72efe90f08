package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/golang_services/internal/pulse_service/adapters/crmclient"
	"github.com/pulsecrm/golang_services/internal/pulse_service/app"
	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
	httptransport "github.com/pulsecrm/golang_services/internal/pulse_service/transport/http"
)

// fakeCRMBackend simulates the CRM backend REST collaborators. Mutating its
// fields between requests stands in for server-side state changes.
type fakeCRMBackend struct {
	mu         sync.Mutex
	aggregates []domain.ContactAggregate
	timelines  map[string]*domain.Timeline
}

func (f *fakeCRMBackend) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/contact-calls", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"contact_calls": f.aggregates})
	})
	r.Get("/contacts/{contactID}/timeline", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		timeline, ok := f.timelines[chi.URLParam(req, "contactID")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "contact not found"})
			return
		}
		json.NewEncoder(w).Encode(timeline)
	})
	r.Post("/contacts/{contactID}/read", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

type pulseStack struct {
	backend    *fakeCRMBackend
	projection *app.Projection
	controller *app.MergeController
	api        *httptest.Server
}

func newPulseStack(t *testing.T) *pulseStack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend := &fakeCRMBackend{timelines: map[string]*domain.Timeline{}}
	backendServer := httptest.NewServer(backend.handler())
	t.Cleanup(backendServer.Close)

	crmClient := crmclient.NewClient(backendServer.URL, "", 5*time.Second, logger)
	projection := app.NewProjection()
	controller := app.NewMergeController(projection, crmClient, nil, logger)

	validate := validator.New()
	pulseHandler := httptransport.NewPulseHandler(projection, controller, crmClient, crmClient, logger, validate)
	router := chi.NewRouter()
	pulseHandler.RegisterRoutes(router)

	api := httptest.NewServer(router)
	t.Cleanup(api.Close)

	return &pulseStack{backend: backend, projection: projection, controller: controller, api: api}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPulseFlow_ListOpenAndLiveMerge(t *testing.T) {
	stack := newPulseStack(t)
	ctx := context.Background()
	started := time.Date(2026, 7, 10, 9, 30, 0, 0, time.UTC)

	stack.backend.aggregates = []domain.ContactAggregate{
		{ContactID: "c1", Name: "Dana", CustomerE164: "+15551234567", SecondaryE164: "+15559876543", CallCount: 2, Direction: "inbound", CreatedAt: started, HasUnread: true},
		{ContactID: "c1-dup", Name: "Dana (old)", CustomerE164: "1 (555) 123-4567", CallCount: 1, Direction: "inbound", CreatedAt: started},
	}
	stack.backend.timelines["c1"] = &domain.Timeline{
		Contact: &domain.ContactAggregate{ContactID: "c1", CustomerE164: "+15551234567", SecondaryE164: "+15559876543"},
		Calls: []domain.Call{
			{CallSid: "CA1", FromNumber: "+15559876543", ToNumber: "+15550000000", Direction: "inbound", StartedAt: &started, CreatedAt: started},
		},
	}

	// 1. Contact list is fetched, deduplicated by digit key.
	var listResp struct {
		Contacts []domain.ContactListEntry `json:"contacts"`
	}
	code := getJSON(t, stack.api.URL+"/contacts", &listResp)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, listResp.Contacts, 1)
	assert.Equal(t, "c1", listResp.Contacts[0].Contact.ContactID)
	assert.True(t, listResp.Contacts[0].HasUnread)

	// 2. Opening the contact resolves the last-used phone from the merged
	// event stream (the only event hit the secondary number).
	var timelineResp struct {
		ContactID     string `json:"contact_id"`
		LastUsedPhone string `json:"last_used_phone"`
	}
	code = getJSON(t, stack.api.URL+"/contacts/c1/timeline", &timelineResp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "+15559876543", timelineResp.LastUsedPhone)

	// 3. A contact-read push event clears the unread flag without a refetch.
	stack.controller.Apply(ctx, domain.PushEvent{Type: domain.PushContactRead, ContactID: "c1"})
	assert.False(t, stack.projection.ContactList()[0].HasUnread)

	// 4. The backend's state moves on; a top-level call event re-reconciles
	// the list projection from a fresh snapshot.
	stack.backend.mu.Lock()
	stack.backend.aggregates[0].CallCount = 3
	stack.backend.mu.Unlock()
	stack.controller.Apply(ctx, domain.PushEvent{Type: domain.PushCallUpdated, CallSid: "CA2", ContactID: "c1"})
	assert.Equal(t, 3, stack.projection.ContactList()[0].CallCount)

	// 5. Live transcript: deltas buffer, finalize replaces atomically.
	stack.controller.Apply(ctx, domain.PushEvent{Type: domain.PushTranscriptDelta, CallSid: "CA2", Text: "hello "})
	stack.controller.Apply(ctx, domain.PushEvent{Type: domain.PushTranscriptDelta, CallSid: "CA2", Text: "world"})
	stack.controller.Apply(ctx, domain.PushEvent{Type: domain.PushTranscriptFinalized, CallSid: "CA2", Text: "hello, world."})

	var transcriptResp struct {
		Transcript app.TranscriptSnapshot `json:"transcript"`
	}
	code = getJSON(t, stack.api.URL+"/calls/CA2/transcript", &transcriptResp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello, world.", transcriptResp.Transcript.Text)
	assert.True(t, transcriptResp.Transcript.Finalized)

	// 6. A vanished contact degrades to an empty timeline, not an error.
	code = getJSON(t, stack.api.URL+"/contacts/ghost/timeline", nil)
	assert.Equal(t, http.StatusOK, code)
}
