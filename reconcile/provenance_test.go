package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kendall-kelly/design-orders-panel/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		remote int
		local  int
		want   models.Provenance
	}{
		{"remote empty", 0, 4, models.ProvenanceLocal},
		{"both empty", 0, 0, models.ProvenanceLocal},
		{"remote only", 3, 0, models.ProvenanceAPI},
		{"both populated", 3, 2, models.ProvenanceMixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.remote, tt.local))
		})
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, models.ProvenanceUnknown, tr.State())
	assert.Equal(t, "Loading data...", tr.StatusLine())

	assert.Equal(t, models.ProvenanceMixed, tr.Resolve(2, 3))
	assert.Equal(t, "API data merged with local cache (2 from API, 3 local)", tr.StatusLine())

	tr.Begin()
	assert.Equal(t, models.ProvenanceUnknown, tr.State())

	assert.Equal(t, models.ProvenanceLocal, tr.RemoteFailed(errors.New("connection refused"), 5))
	status := tr.Status()
	assert.Equal(t, "connection refused", status.Error)
	assert.Equal(t, "API unavailable, showing local data (5 records)", status.Message)
	assert.False(t, status.UpdatedAt.IsZero())

	assert.Equal(t, models.ProvenanceLocal, tr.RemoteDisabled(1))
	assert.Equal(t, "Showing local data (1 records)", tr.StatusLine())

	assert.Equal(t, models.ProvenanceError, tr.Fail(errors.New("boom")))
	assert.Equal(t, "Failed to load data", tr.StatusLine())

	assert.Equal(t, models.ProvenanceAPI, tr.Resolve(4, 0))
	assert.Empty(t, tr.Status().Error)
}
