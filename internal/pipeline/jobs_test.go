package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("Optics", "pdf")
	if job.ID == "" {
		t.Fatal("expected an id")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if other := NewJob("Optics", "pdf"); other.ID == job.ID {
		t.Error("expected distinct ids")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusGeneratingNotes, "generating notes"},
		{StatusComposing, "composing document"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
		if job.Status.Done() {
			t.Errorf("status %q should not be final", tr.status)
		}
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob("Optics", "pdf")
	job.Fail("generating notes", "quota exceeded")

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if snap.Error != "quota exceeded" {
		t.Errorf("expected error %q, got %q", "quota exceeded", snap.Error)
	}
	if !snap.Status.Done() {
		t.Error("failed should be final")
	}
	if _, ok := job.Output(); ok {
		t.Error("failed job must not expose output")
	}
}

func TestJob_Complete(t *testing.T) {
	job := NewJob("Optics", "pdf")
	if _, ok := job.Output(); ok {
		t.Fatal("queued job must not expose output")
	}

	data := []byte("%PDF-1.3 fake")
	job.Complete("Optics_JEE_notes_2024-01-01.pdf", "application/pdf", data)

	out, ok := job.Output()
	if !ok {
		t.Fatal("expected output after Complete")
	}
	if string(out.Data) != string(data) {
		t.Errorf("expected data %q, got %q", data, out.Data)
	}
	if out.ETag != ContentHashHex(data) {
		t.Errorf("expected etag to be content hash, got %q", out.ETag)
	}
	snap := job.Snapshot()
	if snap.Size != len(data) {
		t.Errorf("expected size %d, got %d", len(data), snap.Size)
	}
	if snap.Filename != "Optics_JEE_notes_2024-01-01.pdf" {
		t.Errorf("unexpected filename %q", snap.Filename)
	}
}

func TestJob_Notes(t *testing.T) {
	job := NewJob("Optics", "pdf")
	job.SetNotes("1. Reflection")
	if job.Notes() != "1. Reflection" {
		t.Errorf("unexpected notes %q", job.Notes())
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
