package session

import (
	"errors"
	"testing"

	"github.com/datateller/datateller/internal/config"
	"github.com/datateller/datateller/internal/dataset"
	"github.com/datateller/datateller/internal/profile"
	"github.com/google/uuid"
)

func TestNewRunsPipeline(t *testing.T) {
	sess, err := New("sample.csv", dataset.Sample(), config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sess.ID == uuid.Nil {
		t.Error("session ID not assigned")
	}
	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if sess.Name != "sample.csv" {
		t.Errorf("Name = %q", sess.Name)
	}
	if sess.Profile == nil || sess.Profile.Rows != 100 {
		t.Fatalf("profile missing or wrong: %+v", sess.Profile)
	}
	if len(sess.Insights) == 0 {
		t.Error("no insights generated")
	}
	if len(sess.Charts) == 0 {
		t.Error("no charts rendered")
	}
}

func TestNewEmptyDataset(t *testing.T) {
	_, err := New("empty.csv", &dataset.Dataset{}, config.Default())
	if err == nil {
		t.Fatal("expected an error for an empty dataset")
	}
	if !errors.Is(err, profile.ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestBuildReport(t *testing.T) {
	cfg := config.Default()
	sess, err := New("sample.csv", dataset.Sample(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	rep := sess.BuildReport(cfg)
	if len(rep.Sections) != 7 {
		t.Fatalf("got %d sections, want 7", len(rep.Sections))
	}
	// Reports are rebuilt per call, not cached.
	if again := sess.BuildReport(cfg); again == rep {
		t.Error("BuildReport returned a cached report")
	}
}
