package devserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todo/internal/devserver"
	"todo/internal/service"
	"todo/internal/storage"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) service.Task {
	t.Helper()
	var task service.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("failed to decode task %q: %v", w.Body.String(), err)
	}
	return task
}

func decodeTasks(t *testing.T, w *httptest.ResponseRecorder) []service.Task {
	t.Helper()
	var tasks []service.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("failed to decode tasks %q: %v", w.Body.String(), err)
	}
	return tasks
}

func TestServer_CreateDefaultsCompleted(t *testing.T) {
	h := devserver.New(storage.NewMemory()).Handler()

	w := do(t, h, http.MethodPost, "/todo/create", `{"title":"buy milk"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	task := decodeTask(t, w)
	if task.ID == "" {
		t.Error("expected server to assign an id")
	}
	if task.Title != "buy milk" || task.Completed {
		t.Errorf("unexpected task: %+v", task)
	}
}

func TestServer_CreateRejectsEmptyTitle(t *testing.T) {
	h := devserver.New(storage.NewMemory()).Handler()

	w := do(t, h, http.MethodPost, "/todo/create", `{"title":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestServer_ListViews(t *testing.T) {
	h := devserver.New(storage.NewMemory()).Handler()
	do(t, h, http.MethodPost, "/todo/create", `{"title":"one"}`)
	do(t, h, http.MethodPost, "/todo/create", `{"title":"two","completed":true}`)
	do(t, h, http.MethodPost, "/todo/create", `{"title":"three"}`)

	all := decodeTasks(t, do(t, h, http.MethodGet, "/todo/all", ""))
	if len(all) != 3 || all[0].Title != "one" || all[2].Title != "three" {
		t.Errorf("expected all tasks in creation order, got %+v", all)
	}

	page := decodeTasks(t, do(t, h, http.MethodGet, "/todo/all?limit=1&offset=1", ""))
	if len(page) != 1 || page[0].Title != "two" {
		t.Errorf("expected page [two], got %+v", page)
	}

	active := decodeTasks(t, do(t, h, http.MethodGet, "/todo/active", ""))
	if len(active) != 2 {
		t.Errorf("expected 2 active tasks, got %+v", active)
	}

	completed := decodeTasks(t, do(t, h, http.MethodGet, "/todo/completed", ""))
	if len(completed) != 1 || completed[0].Title != "two" {
		t.Errorf("expected [two] completed, got %+v", completed)
	}

	if w := do(t, h, http.MethodGet, "/todo/all?limit=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", w.Code)
	}
}

func TestServer_GetUpdateDelete(t *testing.T) {
	h := devserver.New(storage.NewMemory()).Handler()
	created := decodeTask(t, do(t, h, http.MethodPost, "/todo/create", `{"title":"one"}`))

	got := decodeTask(t, do(t, h, http.MethodGet, "/todo/"+created.ID, ""))
	if got != created {
		t.Errorf("expected %+v, got %+v", created, got)
	}

	w := do(t, h, http.MethodPut, "/todo/update/"+created.ID, `{"title":"uno","completed":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeTask(t, w)
	if updated != (service.Task{ID: created.ID, Title: "uno", Completed: true}) {
		t.Errorf("unexpected updated task: %+v", updated)
	}

	w = do(t, h, http.MethodDelete, "/todo/delete/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if deleted := decodeTask(t, w); deleted != updated {
		t.Errorf("expected deleted record %+v, got %+v", updated, deleted)
	}

	if w := do(t, h, http.MethodGet, "/todo/"+created.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestServer_UnknownIDs(t *testing.T) {
	h := devserver.New(storage.NewMemory()).Handler()

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/todo/missing", ""},
		{http.MethodPut, "/todo/update/missing", `{"title":"x"}`},
		{http.MethodDelete, "/todo/delete/missing", ""},
	}
	for _, tt := range tests {
		if w := do(t, h, tt.method, tt.path, tt.body); w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tt.method, tt.path, w.Code)
		}
	}
}

func TestServer_RequiresToken(t *testing.T) {
	h := devserver.New(storage.NewMemory(), devserver.WithToken("s3cret")).Handler()

	if w := do(t, h, http.MethodGet, "/todo/all", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/todo/all", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- devserver.New(storage.NewMemory()).Run(ctx, "127.0.0.1:0")
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * devserver.ShutdownTimeout):
		t.Fatal("Run did not return after cancel")
	}
}
