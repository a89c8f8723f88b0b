package conference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected download token header, got %q", got)
		}
		w.Write([]byte("caption content"))
	}))
	defer srv.Close()

	data, err := NewClient(5*time.Second).DownloadFile(context.Background(), srv.URL, "tok-123")
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if string(data) != "caption content" {
		t.Errorf("unexpected body %q", data)
	}
}

func TestDownloadFile_ErrorStatus(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewClient(5*time.Second).DownloadFile(context.Background(), srv.URL, ""); err == nil {
		t.Fatal("expected error for 404")
	}
	if attempts != 1 {
		t.Errorf("404 must not retry, got %d attempts", attempts)
	}
}

func TestDownloadFile_RetriesTransientFailure(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("eventually"))
	}))
	defer srv.Close()

	data, err := NewClient(5*time.Second).DownloadFile(context.Background(), srv.URL, "")
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if string(data) != "eventually" {
		t.Errorf("unexpected body %q", data)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestCheckReachable(t *testing.T) {
	var sawHead bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHead = r.Method == "HEAD"
	}))
	defer srv.Close()

	if err := NewClient(5*time.Second).CheckReachable(context.Background(), srv.URL, ""); err != nil {
		t.Fatalf("CheckReachable failed: %v", err)
	}
	if !sawHead {
		t.Error("reachability check should use HEAD")
	}
}

func TestCheckReachable_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewClient(5*time.Second).CheckReachable(context.Background(), srv.URL, "")
	if !errors.Is(err, entities.ErrMediaNotReachable) {
		t.Fatalf("expected ErrMediaNotReachable, got %v", err)
	}
}

func TestCheckReachable_MethodNotAllowedCountsAsReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	if err := NewClient(5*time.Second).CheckReachable(context.Background(), srv.URL, ""); err != nil {
		t.Fatalf("405 should count as reachable, got %v", err)
	}
}
