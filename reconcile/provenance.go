package reconcile

import (
	"fmt"
	"sync"
	"time"

	"github.com/kendall-kelly/design-orders-panel/models"
)

// Classify maps the record counts of a completed load to its provenance
func Classify(remoteCount, localCount int) models.Provenance {
	switch {
	case remoteCount == 0:
		return models.ProvenanceLocal
	case localCount == 0:
		return models.ProvenanceAPI
	default:
		return models.ProvenanceMixed
	}
}

// Status is a point-in-time view of the tracker
type Status struct {
	Source      models.Provenance `json:"source"`
	RemoteCount int               `json:"remoteCount"`
	LocalCount  int               `json:"localCount"`
	Message     string            `json:"message"`
	Error       string            `json:"error,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Tracker records where the most recent load got its data
type Tracker struct {
	mu     sync.RWMutex
	status Status
	now    func() time.Time
}

// NewTracker starts in the unknown state
func NewTracker() *Tracker {
	t := &Tracker{now: time.Now}
	t.Begin()
	return t
}

// Begin resets the tracker at the start of a load
func (t *Tracker) Begin() {
	t.set(Status{Source: models.ProvenanceUnknown})
}

// Resolve records a load where the remote answered
func (t *Tracker) Resolve(remoteCount, localCount int) models.Provenance {
	p := Classify(remoteCount, localCount)
	t.set(Status{Source: p, RemoteCount: remoteCount, LocalCount: localCount})
	return p
}

// RemoteFailed records a load that fell back to local after a remote failure
func (t *Tracker) RemoteFailed(err error, localCount int) models.Provenance {
	s := Status{Source: models.ProvenanceLocal, LocalCount: localCount}
	if err != nil {
		s.Error = err.Error()
	}
	t.set(s)
	return s.Source
}

// RemoteDisabled records a load made without contacting the remote
func (t *Tracker) RemoteDisabled(localCount int) models.Provenance {
	t.set(Status{Source: models.ProvenanceLocal, LocalCount: localCount})
	return models.ProvenanceLocal
}

// Fail records an unrecoverable load
func (t *Tracker) Fail(err error) models.Provenance {
	s := Status{Source: models.ProvenanceError}
	if err != nil {
		s.Error = err.Error()
	}
	t.set(s)
	return s.Source
}

// State returns the current provenance
func (t *Tracker) State() models.Provenance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status.Source
}

// Status returns a copy of the current status
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// StatusLine returns the human readable description of the current state
func (t *Tracker) StatusLine() string {
	return t.Status().Message
}

func (t *Tracker) set(s Status) {
	s.Message = statusLine(s)
	s.UpdatedAt = t.now()
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

func statusLine(s Status) string {
	switch s.Source {
	case models.ProvenanceAPI:
		return fmt.Sprintf("Live data from API (%d records)", s.RemoteCount)
	case models.ProvenanceMixed:
		return fmt.Sprintf("API data merged with local cache (%d from API, %d local)", s.RemoteCount, s.LocalCount)
	case models.ProvenanceLocal:
		if s.Error != "" {
			return fmt.Sprintf("API unavailable, showing local data (%d records)", s.LocalCount)
		}
		return fmt.Sprintf("Showing local data (%d records)", s.LocalCount)
	case models.ProvenanceError:
		return "Failed to load data"
	default:
		return "Loading data..."
	}
}
