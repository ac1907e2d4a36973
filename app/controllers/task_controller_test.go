package controllers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"task-api/app/models"
	"task-api/app/services"

	"github.com/gorilla/mux"
)

type brokenRepo struct{ err error }

func (b brokenRepo) Add(context.Context, string) (models.Task, error) { return models.Task{}, b.err }
func (b brokenRepo) Get(context.Context, int64) (models.Task, error)  { return models.Task{}, b.err }
func (b brokenRepo) List(context.Context) ([]models.Task, error)      { return nil, b.err }
func (b brokenRepo) Delete(context.Context, int64) error              { return b.err }

func newBrokenRouter(logger *slog.Logger) *mux.Router {
	c := NewTaskController(services.NewTaskService(brokenRepo{err: errors.New("database is locked")}), logger)
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware(logger))
	r.HandleFunc("/tasks", c.GetTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", c.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{taskID}", c.GetTaskByID).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{taskID}", c.DeleteTask).Methods(http.MethodDelete)
	return r
}

func TestStorageFailureMapsTo500(t *testing.T) {
	var buf bytes.Buffer
	router := newBrokenRouter(slog.New(slog.NewTextHandler(&buf, nil)))

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/tasks", ""},
		{http.MethodPost, "/tasks", `{"description":"x"}`},
		{http.MethodGet, "/tasks/1", ""},
		{http.MethodDelete, "/tasks/1", ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: status = %d, want 500", tt.method, tt.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "database is locked") {
			t.Errorf("%s %s: body = %q", tt.method, tt.path, rec.Body.String())
		}
	}

	logs := buf.String()
	if !strings.Contains(logs, "level=ERROR") || !strings.Contains(logs, "task request failed") {
		t.Fatalf("storage failure not logged: %q", logs)
	}
	if !strings.Contains(logs, "status=500") {
		t.Fatalf("access log missing status: %q", logs)
	}
}

func TestRequestIDInContext(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" || seen != rec.Header().Get(RequestIDHeader) {
		t.Fatalf("context id %q, header id %q", seen, rec.Header().Get(RequestIDHeader))
	}
	if RequestID(context.Background()) != "" {
		t.Fatal("RequestID on bare context should be empty")
	}
}

func TestCreateTaskRejectsOversizedBody(t *testing.T) {
	router := newBrokenRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	body := `{"description":"` + strings.Repeat("x", 2*maxBodyBytes) + `"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}
