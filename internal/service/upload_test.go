package service

import (
	"context"
	"errors"
	"testing"

	"studyvault/internal/domain"
	"studyvault/internal/uploadpolicy"
)

func newUploadFixture(t *testing.T) (*UploadService, *fakeObjectStore) {
	t.Helper()
	policy, err := uploadpolicy.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	store := newFakeObjectStore()
	return NewUploadService(store, policy, testLogger()), store
}

func TestCreateSession(t *testing.T) {
	svc, store := newUploadFixture(t)

	resp, err := svc.CreateSession(context.Background(), &CreateUploadSessionRequest{
		OwnerID:  "user-1",
		FileName: "notes.pdf",
		MimeType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if resp.SessionURL == "" || resp.FileID == "" {
		t.Errorf("incomplete session: %+v", resp)
	}
	if resp.MaxSizeBytes != 50<<20 {
		t.Errorf("maxSizeBytes = %d, want default 50MB", resp.MaxSizeBytes)
	}
	if store.sessions != 1 {
		t.Errorf("store sessions = %d, want 1", store.sessions)
	}
}

func TestCreateSessionUsesTypeSizeOverride(t *testing.T) {
	svc, _ := newUploadFixture(t)

	resp, err := svc.CreateSession(context.Background(), &CreateUploadSessionRequest{
		OwnerID:  "user-1",
		FileName: "slides.pptx",
		MimeType: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if resp.MaxSizeBytes != 100<<20 {
		t.Errorf("maxSizeBytes = %d, want type override 100MB", resp.MaxSizeBytes)
	}
}

func TestCreateSessionRejectsDisallowedType(t *testing.T) {
	svc, store := newUploadFixture(t)

	_, err := svc.CreateSession(context.Background(), &CreateUploadSessionRequest{
		OwnerID:  "user-1",
		FileName: "setup.exe",
		MimeType: "application/x-msdownload",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("CreateSession() error = %v, want ErrValidation", err)
	}
	if store.sessions != 0 {
		t.Error("session provisioned despite refused type")
	}
}

func TestCreateSessionValidation(t *testing.T) {
	svc, _ := newUploadFixture(t)

	tests := []struct {
		name string
		req  CreateUploadSessionRequest
	}{
		{"missing file name", CreateUploadSessionRequest{OwnerID: "user-1", MimeType: "application/pdf"}},
		{"missing mime type", CreateUploadSessionRequest{OwnerID: "user-1", FileName: "notes.pdf"}},
		{"missing owner", CreateUploadSessionRequest{FileName: "notes.pdf", MimeType: "application/pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSession(context.Background(), &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("CreateSession() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestFileLink(t *testing.T) {
	svc, store := newUploadFixture(t)

	session, err := store.CreateUploadSession(context.Background(), "user-1", "notes.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}

	meta, err := svc.FileLink(context.Background(), session.FileID)
	if err != nil {
		t.Fatalf("FileLink() error = %v", err)
	}
	if meta.Name != "notes.pdf" {
		t.Errorf("name = %q, want notes.pdf", meta.Name)
	}

	if _, err := svc.FileLink(context.Background(), "gone"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FileLink(gone) error = %v, want ErrNotFound", err)
	}
}

func TestAcceptedTypes(t *testing.T) {
	svc, _ := newUploadFixture(t)

	types := svc.AcceptedTypes()
	if len(types) == 0 {
		t.Fatal("no accepted types")
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].MimeType >= types[i].MimeType {
			t.Fatalf("types not sorted: %q before %q", types[i-1].MimeType, types[i].MimeType)
		}
	}
}
