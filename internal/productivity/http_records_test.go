package productivity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"ecolife-backend/internal/models"
)

func TestHTTPRecords_LoadAndSave(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		stored *models.ProductivityRecord
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.URL.Path != "/api/me/productivity" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Expected bearer token, got %q", got)
		}

		switch r.Method {
		case http.MethodGet:
			if stored == nil {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"No productivity record yet."}`))
				return
			}
			_ = json.NewEncoder(w).Encode(stored)
		case http.MethodPut:
			var rec models.ProductivityRecord
			if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
				t.Errorf("Decode failed: %v", err)
			}
			stored = &rec
			_ = json.NewEncoder(w).Encode(rec)
		}
	}))
	defer srv.Close()

	records := NewHTTPRecords(srv.URL+"/", "tok", srv.Client())
	ctx := context.Background()

	rec, err := records.Load(ctx, "u")
	if err != nil || rec != nil {
		t.Fatalf("Expected nil, nil for a missing record, got %v, %v", rec, err)
	}

	want := models.ProductivityRecord{Tasks: []models.Task{models.NewTask("1", "Compost")}}
	if err := records.Save(ctx, "u", want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec, err = records.Load(ctx, "u")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(rec.Tasks) != 1 || rec.Tasks[0].Title != "Compost" {
		t.Errorf("Unexpected record %+v", rec)
	}
}

func TestHTTPRecords_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	records := NewHTTPRecords(srv.URL, "bad", nil)
	err := records.Save(context.Background(), "u", models.ProductivityRecord{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "unauthorized" {
		t.Errorf("Unexpected error %+v", apiErr)
	}
}

func TestHTTPRecords_UnknownEndpointIsAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Endpoint not found."}`))
	}))
	defer srv.Close()

	rec, err := NewHTTPRecords(srv.URL+"/wrong", "tok", nil).Load(context.Background(), "u")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("Expected a 404 APIError, got %v, %v", rec, err)
	}

	store := NewStore(NewHTTPRecords(srv.URL+"/wrong", "tok", nil))
	if err := store.Load(context.Background(), "u"); err == nil {
		t.Error("Expected the store to surface the failed load")
	}
	if store.Snapshot().Err == nil {
		t.Error("Expected the snapshot to carry the load error")
	}
}

func TestHTTPRecords_DrivesStoreRollback(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(models.ProductivityRecord{
				Tasks: []models.Task{models.NewTask("1", "Keep me")},
			})
		case http.MethodPut:
			if fail.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	store := NewStore(NewHTTPRecords(srv.URL, "tok", srv.Client()))
	ctx := context.Background()
	if err := store.Load(ctx, "u"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	fail.Store(true)
	if err := store.DeleteTask(ctx, "1"); err == nil {
		t.Fatal("Expected delete to fail")
	}
	if got := len(store.Snapshot().Tasks); got != 1 {
		t.Errorf("Expected the task to be restored, got %d tasks", got)
	}
}
