package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halcyonlab/notetracker/internal/dispatch"
)

func TestDeploy_ParsesBotID(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"id": "bot1"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	res, err := c.Deploy(context.Background(), dispatch.DeployInput{
		MeetingURL: "https://meet.google.com/abc-defg-hij",
		GrantID:    "acct1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.BotID != "bot1" {
		t.Fatalf("expected bot1, got %q", res.BotID)
	}
	if gotPath != "/v3/grants/acct1/notetakers" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody["meeting_link"] != "https://meet.google.com/abc-defg-hij" {
		t.Fatalf("unexpected request body %v", gotBody)
	}
}

func TestDeploy_MissingBotIDIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	if _, err := c.Deploy(context.Background(), dispatch.DeployInput{GrantID: "acct1"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusNotFound, dispatch.ErrVendorNotFound},
		{http.StatusGatewayTimeout, dispatch.ErrVendorTimeout},
		{http.StatusRequestTimeout, dispatch.ErrVendorTimeout},
		{http.StatusBadGateway, dispatch.ErrVendorGateway},
		{http.StatusServiceUnavailable, dispatch.ErrVendorGateway},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.code)
		}))
		c := NewHTTPClient(srv.URL, "secret")
		_, err := c.BotStatus(context.Background(), "acct1", "bot1")
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestBotStatus_PrefersMeetingState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"meeting_state": "recording_active", "state": "running"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	state, err := c.BotStatus(context.Background(), "acct1", "bot1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state != "recording_active" {
		t.Fatalf("expected recording_active, got %q", state)
	}
}

func TestTranscript_FollowsMediaURL(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/v3/grants/acct1/notetakers/bot1/media", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"transcript": srv.URL + "/files/t.json"},
		})
	})
	mux.HandleFunc("/files/t.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entries": [{"speaker": "Ana", "text": "Hello.", "start": 1.5, "end": 4}]}`))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	tr, err := c.Transcript(context.Background(), "acct1", "bot1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tr.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(tr.Segments))
	}
	seg := tr.Segments[0]
	if seg.Speaker != "Ana" || seg.Text != "Hello." {
		t.Fatalf("unexpected segment %+v", seg)
	}
	if seg.StartSec != 1.5 || seg.EndSec != 4 {
		t.Fatalf("unexpected timing %+v", seg)
	}
}

func TestTranscript_NoMediaURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	if _, err := c.Transcript(context.Background(), "acct1", "bot1"); !errors.Is(err, dispatch.ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestFetchTranscript_SegmentsShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"segments": [{"speaker": "Ben", "text": "Hi.", "start_sec": 0, "end_sec": 2}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	tr, err := c.FetchTranscript(context.Background(), srv.URL+"/t.json")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tr.Segments) != 1 || tr.Segments[0].EndSec != 2 {
		t.Fatalf("unexpected transcript %+v", tr)
	}
}

func TestFetchTranscript_BadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	if _, err := c.FetchTranscript(context.Background(), srv.URL+"/t.json"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
