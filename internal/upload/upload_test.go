package upload

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	s, err := NewStorage(Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}

	stored, err := s.Save("req-1", "engine photo.jpg", strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(stored, "engine_photo.jpg") {
		t.Errorf("stored name %q does not keep the sanitized original", stored)
	}

	f, err := s.Open("req-1", stored)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	content, _ := io.ReadAll(f)
	if string(content) != "jpeg bytes" {
		t.Errorf("stored content mismatch: %q", content)
	}
}

func TestSameNameDoesNotClash(t *testing.T) {
	s, err := NewStorage(Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}

	first, err := s.Save("req-1", "dash.jpg", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := s.Save("req-1", "dash.jpg", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if first == second {
		t.Fatal("two uploads with the same name stored under one file")
	}
}

func TestHostileNamesAreContained(t *testing.T) {
	s, err := NewStorage(Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}

	stored, err := s.Save("req-1", "../../etc/passwd", strings.NewReader("nope"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if strings.Contains(stored, "..") || strings.Contains(stored, "/") {
		t.Errorf("stored name %q escapes the upload directory", stored)
	}

	if _, err := s.Open("../../snoop", stored); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("traversal in request id was not contained: %v", err)
	}
}
