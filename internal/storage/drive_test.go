package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"studyvault/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDrive is a minimal stand-in for the token endpoint and the Drive v3
// surface the client touches.
type fakeDrive struct {
	mux *http.ServeMux

	rejectToken bool
	lastCreate  map[string]any
}

func newFakeDrive() *fakeDrive {
	f := &fakeDrive{mux: http.NewServeMux()}

	f.mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if f.rejectToken {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostFormValue("grant_type") != "refresh_token" {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at-test",
			"expires_in":   3599,
			"token_type":   "Bearer",
		})
	})

	f.mux.HandleFunc("POST /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&f.lastCreate)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"id": "file-123"})
	})

	f.mux.HandleFunc("POST /drive/v3/files/file-123/permissions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	})

	f.mux.HandleFunc("PATCH /upload/drive/v3/files/file-123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://upload.example.com/resumable/xyz")
		w.WriteHeader(http.StatusOK)
	})

	f.mux.HandleFunc("GET /drive/v3/files/file-123", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id":             "file-123",
			"name":           "notes.pdf",
			"mimeType":       "application/pdf",
			"size":           "2048",
			"webViewLink":    "https://drive.example.com/view/file-123",
			"webContentLink": "https://drive.example.com/download/file-123",
		})
	})
	f.mux.HandleFunc("GET /drive/v3/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	f.mux.HandleFunc("DELETE /drive/v3/files/file-123", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	f.mux.HandleFunc("DELETE /drive/v3/files/file-gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	f.mux.HandleFunc("DELETE /drive/v3/files/file-locked", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
	f.mux.HandleFunc("DELETE /drive/v3/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	return f
}

func newTestClient(t *testing.T, f *fakeDrive) *DriveClient {
	t.Helper()
	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)

	return NewDriveClient(DriveConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-token",
		TokenURL:     srv.URL + "/token",
		APIBase:      srv.URL,
	}, testLogger())
}

func TestCreateUploadSession(t *testing.T) {
	f := newFakeDrive()
	client := newTestClient(t, f)

	session, err := client.CreateUploadSession(context.Background(), "user-1", "notes.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("CreateUploadSession() error = %v", err)
	}

	if session.FileID != "file-123" {
		t.Errorf("fileID = %q, want file-123", session.FileID)
	}
	if session.SessionURL != "https://upload.example.com/resumable/xyz" {
		t.Errorf("sessionURL = %q", session.SessionURL)
	}

	// The owner tag must ride along on the file so ownership survives at the
	// provider even if our records are lost.
	props, _ := f.lastCreate["appProperties"].(map[string]any)
	if props["ownerId"] != "user-1" {
		t.Errorf("appProperties = %v, want ownerId user-1", f.lastCreate["appProperties"])
	}
	if f.lastCreate["name"] != "notes.pdf" {
		t.Errorf("created name = %v", f.lastCreate["name"])
	}
}

func TestTokenRejectionIsAuthError(t *testing.T) {
	f := newFakeDrive()
	f.rejectToken = true
	client := newTestClient(t, f)

	if _, err := client.CreateUploadSession(context.Background(), "user-1", "notes.pdf", "application/pdf"); !errors.Is(err, domain.ErrAuth) {
		t.Errorf("CreateUploadSession() error = %v, want ErrAuth", err)
	}
	if err := client.Delete(context.Background(), "file-123"); !errors.Is(err, domain.ErrAuth) {
		t.Errorf("Delete() error = %v, want ErrAuth", err)
	}
}

func TestDelete(t *testing.T) {
	client := newTestClient(t, newFakeDrive())

	if err := client.Delete(context.Background(), "file-123"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	// A file already gone at the provider counts as a successful delete.
	if err := client.Delete(context.Background(), "file-gone"); err != nil {
		t.Errorf("Delete(gone) error = %v, want nil", err)
	}

	if err := client.Delete(context.Background(), "file-locked"); !errors.Is(err, domain.ErrAuth) {
		t.Errorf("Delete(locked) error = %v, want ErrAuth", err)
	}

	if err := client.Delete(context.Background(), "file-broken"); !errors.Is(err, domain.ErrStorage) {
		t.Errorf("Delete(broken) error = %v, want ErrStorage", err)
	}
}

func TestGetFileMetadata(t *testing.T) {
	client := newTestClient(t, newFakeDrive())

	meta, err := client.GetFileMetadata(context.Background(), "file-123")
	if err != nil {
		t.Fatalf("GetFileMetadata() error = %v", err)
	}
	if meta.Name != "notes.pdf" || meta.Size != 2048 {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.WebContentLink != "https://drive.example.com/download/file-123" {
		t.Errorf("webContentLink = %q", meta.WebContentLink)
	}

	if _, err := client.GetFileMetadata(context.Background(), "file-missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetFileMetadata(missing) error = %v, want ErrNotFound", err)
	}
}
