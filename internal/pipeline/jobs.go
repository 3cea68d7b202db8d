package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of an export job.
type JobStatus string

const (
	StatusQueued          JobStatus = "queued"
	StatusGeneratingNotes JobStatus = "generating_notes"
	StatusComposing       JobStatus = "composing"
	StatusCompleted       JobStatus = "completed"
	StatusFailed          JobStatus = "failed"
)

// Done reports whether the job has reached a final state.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one notes-then-document export.
type Job struct {
	mu sync.Mutex

	ID     string    `json:"job_id"`
	Topic  string    `json:"topic"`
	Format string    `json:"format"`
	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	notes       string
	output      []byte
	contentType string
	etag        string
}

// NewJob creates a queued job.
func NewJob(topic, format string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Topic:     topic,
		Format:    format,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed during phase.
func (j *Job) Fail(phase, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Phase = phase
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// SetNotes keeps the generated notes for composition.
func (j *Job) SetNotes(notes string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.notes = notes
	j.UpdatedAt = time.Now()
}

// Notes returns the generated notes, if any.
func (j *Job) Notes() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.notes
}

// Complete stores the rendered document and marks the job completed.
func (j *Job) Complete(filename, contentType string, data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Filename = filename
	j.contentType = contentType
	j.output = data
	j.etag = ContentHashHex(data)
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Output is a finished document.
type Output struct {
	Filename    string
	ContentType string
	ETag        string
	Data        []byte
}

// Output returns the document once the job has completed.
func (j *Job) Output() (Output, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusCompleted {
		return Output{}, false
	}
	return Output{Filename: j.Filename, ContentType: j.contentType, ETag: j.etag, Data: j.output}, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Topic     string    `json:"topic"`
	Format    string    `json:"format"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename,omitempty"`
	Size      int       `json:"size,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:        j.ID,
		Topic:     j.Topic,
		Format:    j.Format,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Size:      len(j.output),
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
