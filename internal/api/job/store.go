// internal/api/job/store.go
package job

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Status represents job status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Job represents an async job.
type Job struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Status    Status      `json:"status"`
	Progress  int         `json:"progress"`
	Result    any         `json:"result,omitempty"`
	Error     *core.Error `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Store tracks asynchronous API work so clients can poll for results.
// It is bounded: finished jobs stay visible until the TTL or capacity
// pushes them out.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*Job
	queue   []*Job // oldest first
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a job store holding at most maxSize jobs. A ttl of 0
// disables expiry.
func NewStore(maxSize int, ttl time.Duration) *Store {
	return &Store{
		byID:    make(map[string]*Job),
		queue:   make([]*Job, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create registers a new pending job, evicting the oldest one when the
// store is full.
func (s *Store) Create(jobType string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpired()
	if len(s.queue) >= s.maxSize {
		s.dropFront()
	}

	now := s.now()
	j := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.byID[j.ID] = j
	s.queue = append(s.queue, j)
	return j
}

// Get returns a snapshot of the job, so readers never race with the
// worker goroutine mutating it.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.byID[id]
	if !ok || s.expired(j) {
		return nil, core.ErrJobNotFound
	}
	snapshot := *j
	return &snapshot, nil
}

// Update applies fn to the job under the store lock and stamps
// UpdatedAt.
func (s *Store) Update(id string, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.byID[id]
	if !ok {
		return core.ErrJobNotFound
	}
	fn(j)
	j.UpdatedAt = s.now()
	return nil
}

// List returns snapshots of all live jobs, oldest first.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := make([]Job, 0, len(s.queue))
	for _, j := range s.queue {
		if s.expired(j) {
			continue
		}
		live = append(live, *j)
	}
	return live
}

// Active counts pending and running jobs of a type. It feeds the
// active-jobs gauge.
func (s *Store) Active(jobType string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, j := range s.queue {
		if j.Type != jobType {
			continue
		}
		if j.Status == StatusPending || j.Status == StatusRunning {
			n++
		}
	}
	return n
}

// purgeExpired drops expired jobs from the front of the queue. Caller
// must hold mu.
func (s *Store) purgeExpired() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for len(s.queue) > 0 && !s.queue[0].CreatedAt.After(cutoff) {
		s.dropFront()
	}
}

func (s *Store) dropFront() {
	if len(s.queue) == 0 {
		return
	}
	delete(s.byID, s.queue[0].ID)
	s.queue = s.queue[1:]
}

func (s *Store) expired(j *Job) bool {
	return s.ttl > 0 && s.now().Sub(j.CreatedAt) > s.ttl
}
