package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fakeBackend struct {
	lastQuery   map[string]string
	lastCompany string
	lastSession string
	lastHeaders http.Header
	upload      string
	uploadName  string
}

func newFakeBackend(t *testing.T, fb *fakeBackend, override func(r chi.Router)) *Client {
	t.Helper()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fb.lastHeaders = req.Header.Clone()
			next.ServeHTTP(w, req)
		})
	})

	if override != nil {
		override(r)
	} else {
		r.Post("/api/jobs/sync", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"message": "synced", "count": 3})
		})
		r.Get("/api/jobs/search", func(w http.ResponseWriter, req *http.Request) {
			fb.lastQuery = map[string]string{}
			for k := range req.URL.Query() {
				fb.lastQuery[k] = req.URL.Query().Get(k)
			}
			writeJSON(w, http.StatusOK, map[string]any{"jobs": []map[string]any{
				{"_id": "j1", "title": "Go Developer", "company": "Acme", "location": "Berlin", "skills": []string{"go"}},
				{"_id": "j2", "title": "SRE", "company": "Zeta", "location": "Remote"},
			}})
		})
		r.Get("/api/jobs/company/{company}", func(w http.ResponseWriter, req *http.Request) {
			fb.lastCompany = chi.URLParam(req, "company")
			writeJSON(w, http.StatusOK, []map[string]any{{"_id": "j3", "title": "PM", "company": "AT&T"}})
		})
		r.Post("/api/linkedin/sync", func(w http.ResponseWriter, req *http.Request) {
			file, header, err := req.FormFile("file")
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"message": "no file"})
				return
			}
			defer file.Close()
			data, _ := io.ReadAll(file)
			fb.upload = string(data)
			fb.uploadName = header.Filename
			writeJSON(w, http.StatusOK, map[string]any{"sessionId": "s-123", "totalConnections": 2})
		})
		r.Get("/api/linkedin/connections/{session}", func(w http.ResponseWriter, req *http.Request) {
			fb.lastSession = chi.URLParam(req, "session")
			writeJSON(w, http.StatusOK, map[string]any{"connections": []map[string]any{
				{"name": "Ann", "title": "Engineer", "company": "Acme", "profileUrl": "https://linkedin.com/in/ann/", "connectionDegree": 1, "sharedConnections": 12},
				{"name": "Bo", "company": "Zeta", "sharedConnections": "500+"},
			}})
		})
		r.Get("/api/matching/{session}", func(w http.ResponseWriter, req *http.Request) {
			fb.lastSession = chi.URLParam(req, "session")
			writeJSON(w, http.StatusOK, map[string]any{"matches": []any{
				map[string]any{
					"company":     "Acme",
					"jobs":        []any{map[string]any{"_id": "j1", "title": "Go Developer"}},
					"connections": []any{map[string]any{"name": "Ann"}},
				},
				map[string]any{
					"company":     "Solo",
					"jobs":        map[string]any{"_id": "j9", "title": "Designer"},
					"connections": []any{},
				},
				map[string]any{"company": "NoJobs", "jobs": []any{}, "connections": []any{}},
				map[string]any{"company": "NoConnections", "jobs": []any{map[string]any{"title": "x"}}},
			}})
		})
	}

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return New(zap.NewNop(), srv.URL+"/", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSearchJobsOmitsUnsetParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params SearchParams
		expect map[string]string
	}{
		{name: "no params", params: SearchParams{}, expect: map[string]string{}},
		{name: "all location is omitted", params: SearchParams{Query: "go", Location: All}, expect: map[string]string{"q": "go"}},
		{name: "both", params: SearchParams{Query: "go", Location: "Berlin"}, expect: map[string]string{"q": "go", "location": "Berlin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fb := &fakeBackend{}
			client := newFakeBackend(t, fb, nil)

			jobs, err := client.SearchJobs(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(jobs) != 2 {
				t.Fatalf("expected 2 jobs, got %d", len(jobs))
			}
			if len(fb.lastQuery) != len(tt.expect) {
				t.Fatalf("expected query %v, got %v", tt.expect, fb.lastQuery)
			}
			for k, v := range tt.expect {
				if fb.lastQuery[k] != v {
					t.Fatalf("expected %s=%q, got %q", k, v, fb.lastQuery[k])
				}
			}
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	fb := &fakeBackend{}
	client := newFakeBackend(t, fb, nil)

	if _, err := client.SearchJobs(context.Background(), SearchParams{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := fb.lastHeaders.Get("Accept"); got != "application/json" {
		t.Fatalf("expected json accept header, got %q", got)
	}
	if got := fb.lastHeaders.Get("Content-Type"); got != "" {
		t.Fatalf("did not expect content type on bodiless request, got %q", got)
	}
}

func TestSearchJobsDecodesFields(t *testing.T) {
	client := newFakeBackend(t, &fakeBackend{}, nil)

	jobs, err := client.SearchJobs(context.Background(), SearchParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job := jobs[0]
	if job.ID != "j1" || job.Title != "Go Developer" || job.Location != "Berlin" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if len(job.Skills) != 1 || job.Skills[0] != "go" {
		t.Fatalf("unexpected skills: %v", job.Skills)
	}
}

func TestJobsByCompanyEscapesPath(t *testing.T) {
	fb := &fakeBackend{}
	client := newFakeBackend(t, fb, nil)

	jobs, err := client.JobsByCompany(context.Background(), "AT&T Labs/Research")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if fb.lastCompany != "AT&T%20Labs%2FResearch" && fb.lastCompany != "AT&T Labs/Research" {
		t.Fatalf("unexpected company path param: %q", fb.lastCompany)
	}

	if _, err := client.JobsByCompany(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty company")
	}
}

func TestSyncJobs(t *testing.T) {
	client := newFakeBackend(t, &fakeBackend{}, nil)

	result, err := client.SyncJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "synced" || result.Count != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestUploadConnections(t *testing.T) {
	fb := &fakeBackend{}
	client := newFakeBackend(t, fb, nil)

	csv := "First Name,Last Name\nAnn,Lee\n"
	result, err := client.UploadConnections(context.Background(), "/tmp/Connections.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SessionID != "s-123" {
		t.Fatalf("unexpected session id: %q", result.SessionID)
	}
	if result.Connections != 2 {
		t.Fatalf("unexpected connections count: %d", result.Connections)
	}
	if fb.upload != csv {
		t.Fatalf("unexpected uploaded payload: %q", fb.upload)
	}
	if fb.uploadName != "Connections.csv" {
		t.Fatalf("unexpected uploaded filename: %q", fb.uploadName)
	}
	if !strings.HasPrefix(fb.lastHeaders.Get("Content-Type"), "multipart/form-data") {
		t.Fatalf("expected multipart content type, got %q", fb.lastHeaders.Get("Content-Type"))
	}
}

func TestUploadConnectionsWithoutSessionID(t *testing.T) {
	client := newFakeBackend(t, &fakeBackend{}, func(r chi.Router) {
		r.Post("/api/linkedin/sync", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
		})
	})

	_, err := client.UploadConnections(context.Background(), "c.csv", strings.NewReader("x"))
	if KindOf(err) != KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestConnections(t *testing.T) {
	fb := &fakeBackend{}
	client := newFakeBackend(t, fb, nil)

	connections, err := client.Connections(context.Background(), "s-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.lastSession != "s-123" {
		t.Fatalf("unexpected session in path: %q", fb.lastSession)
	}
	if len(connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(connections))
	}

	conn := connections[0]
	if conn.Key() != "ann" {
		t.Fatalf("unexpected key: %q", conn.Key())
	}
	if conn.ConnectionDegree != "1" {
		t.Fatalf("expected numeric degree coerced to string, got %q", conn.ConnectionDegree)
	}
	if conn.SharedConnections != "12" {
		t.Fatalf("expected numeric shared count coerced to string, got %q", conn.SharedConnections)
	}
	if connections[1].SharedConnections != "500+" {
		t.Fatalf("expected capped shared count to be kept, got %q", connections[1].SharedConnections)
	}
}

func TestConnectionsWithoutSession(t *testing.T) {
	client := newFakeBackend(t, &fakeBackend{}, nil)

	_, err := client.Connections(context.Background(), "")
	if !IsNoConnections(err) {
		t.Fatalf("expected no connections error, got %v", err)
	}
}

func TestMatchesDropsIncompleteEntries(t *testing.T) {
	client := newFakeBackend(t, &fakeBackend{}, nil)

	matches, err := client.Matches(context.Background(), "s-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(matches), matches)
	}
	if matches[0].Company != "Acme" || len(matches[0].Jobs) != 1 || len(matches[0].Connections) != 1 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
	if matches[1].Company != "Solo" || len(matches[1].Jobs) != 1 || matches[1].Jobs[0].ID != "j9" {
		t.Fatalf("expected single job object to be wrapped: %+v", matches[1])
	}
}

func TestErrorResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{name: "json message", status: http.StatusInternalServerError, body: `{"message":"boom"}`, kind: KindHTTP, message: "boom"},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, kind: KindHTTP, message: DefaultErrorMessage},
		{name: "json without message", status: http.StatusBadRequest, body: `{"error":"x"}`, kind: KindHTTP, message: DefaultErrorMessage},
		{name: "legacy no connections", status: http.StatusInternalServerError, body: `{"message":"No connections found for session"}`, kind: KindNoConnections, message: "No connections found for session"},
		{name: "error code", status: http.StatusConflict, body: `{"message":"empty","code":"NO_CONNECTIONS"}`, kind: KindNoConnections, message: "empty"},
		{name: "not found", status: http.StatusNotFound, body: ``, kind: KindNoConnections, message: DefaultErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newFakeBackend(t, &fakeBackend{}, func(r chi.Router) {
				r.Get("/api/linkedin/connections/{session}", func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				})
			})

			_, err := client.Connections(context.Background(), "s-1")
			if err == nil {
				t.Fatalf("expected error")
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if apiErr.Kind != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, apiErr.Kind)
			}
			if apiErr.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, apiErr.Message)
			}
			if apiErr.Status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, apiErr.Status)
			}
		})
	}
}

func TestNotFoundOutsideSessionIsPlainHTTPError(t *testing.T) {
	client := newFakeBackend(t, &fakeBackend{}, func(r chi.Router) {})

	_, err := client.SearchJobs(context.Background(), SearchParams{})
	if KindOf(err) != KindHTTP {
		t.Fatalf("expected http error, got %v", err)
	}
}

func TestTransportError(t *testing.T) {
	client := New(zap.NewNop(), "http://127.0.0.1:1", time.Second)

	_, err := client.SearchJobs(context.Background(), SearchParams{})
	if KindOf(err) != KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestDecodeError(t *testing.T) {
	client := newFakeBackend(t, &fakeBackend{}, func(r chi.Router) {
		r.Get("/api/jobs/search", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})
	})

	_, err := client.SearchJobs(context.Background(), SearchParams{})
	if KindOf(err) != KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}
