package request

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/autofault/service-diagnostics-go/internal/request/entity"
	"github.com/autofault/service-diagnostics-go/pkg/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.Config{Path: filepath.Join(t.TempDir(), "requests.json")})
}

func TestSubmitAndGet(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.Submit("Bob@Example.com", validInput())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if id == "" {
		t.Fatal("Submit returned an empty id")
	}

	req, ok := svc.Get(id)
	if !ok {
		t.Fatal("Get did not find the submitted request")
	}
	if req.Status != entity.StatusPending {
		t.Errorf("new request status = %q, want pending", req.Status)
	}
	if req.Response != "" || req.RespondedAt != nil {
		t.Error("new request already carries a response")
	}
	if req.OwnerEmail != "bob@example.com" {
		t.Errorf("owner email not normalized: %q", req.OwnerEmail)
	}
	if req.Attributes["make"] != "Toyota" || req.Attributes["symptoms"] == "" {
		t.Errorf("submitted attributes not carried verbatim: %+v", req.Attributes)
	}
	if req.CreatedAt.IsZero() {
		t.Error("created-at timestamp not set")
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	svc := newTestService(t)

	in := validInput()
	in.Symptoms = ""
	_, err := svc.Submit("", in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(svc.All()) != 0 {
		t.Error("invalid submission reached the store")
	}
}

func TestRespondLifecycle(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.Submit("", validInput())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := svc.Respond(id, "Replace the serpentine belt tensioner."); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	req, _ := svc.Get(id)
	if req.Status != entity.StatusCompleted {
		t.Errorf("status = %q after Respond, want completed", req.Status)
	}
	if req.Response != "Replace the serpentine belt tensioner." {
		t.Errorf("response text not recorded: %q", req.Response)
	}
	if req.RespondedAt == nil {
		t.Fatal("responded-at not stamped")
	}
	firstStamp := *req.RespondedAt

	// re-completing is allowed and overwrites the previous diagnosis
	if err := svc.Respond(id, "Correction: the idler pulley, not the tensioner."); err != nil {
		t.Fatalf("second Respond failed: %v", err)
	}
	req, _ = svc.Get(id)
	if req.Response != "Correction: the idler pulley, not the tensioner." {
		t.Error("second diagnosis did not overwrite the first")
	}
	if req.RespondedAt.Before(firstStamp) {
		t.Error("responded-at not re-stamped")
	}
}

func TestRespondErrors(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Respond("no-such-id", "diagnosis"); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}

	id, _ := svc.Submit("", validInput())
	if err := svc.Respond(id, ""); !errors.Is(err, ErrEmptyDiagnosis) {
		t.Errorf("expected ErrEmptyDiagnosis, got %v", err)
	}
}

func TestPendingAndByOwner(t *testing.T) {
	svc := newTestService(t)

	id1, _ := svc.Submit("alice@example.com", validInput())
	id2, _ := svc.Submit("ALICE@example.com ", validInput())
	id3, _ := svc.Submit("carol@example.com", validInput())

	if err := svc.Respond(id1, "done"); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	pending := svc.Pending()
	if len(pending) != 2 {
		t.Errorf("expected 2 pending requests, got %d", len(pending))
	}
	if _, ok := pending[id1]; ok {
		t.Error("completed request still listed as pending")
	}

	mine := svc.ByOwner("Alice@Example.com")
	if len(mine) != 2 {
		t.Fatalf("expected 2 requests for alice, got %d", len(mine))
	}
	if _, ok := mine[id2]; !ok {
		t.Error("case-variant owner email did not match")
	}
	if _, ok := mine[id3]; ok {
		t.Error("another member's request leaked into the owner filter")
	}
}

func TestAttachFiles(t *testing.T) {
	svc := newTestService(t)

	id, _ := svc.Submit("", validInput())
	if err := svc.AttachFiles(id, []string{"a_engine.jpg", "b_dash.jpg"}); err != nil {
		t.Fatalf("AttachFiles failed: %v", err)
	}
	req, _ := svc.Get(id)
	if !req.HasFiles || len(req.Files) != 2 {
		t.Errorf("attachments not recorded: %+v", req)
	}

	if err := svc.AttachFiles("missing", []string{"x"}); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}
