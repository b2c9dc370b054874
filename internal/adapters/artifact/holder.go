package artifact

import (
	"sync/atomic"

	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
	"github.com/Anurag9000/Gram-Connect/pkg/metrics"
)

// Holder owns the model served to inference. Requests load the pointer once
// and keep using that model even if a newer one is swapped in meanwhile.
type Holder struct {
	cur atomic.Pointer[compat.Model]
}

// NewHolder creates a holder, optionally with an initial model.
func NewHolder(m *compat.Model) *Holder {
	h := &Holder{}
	if m != nil {
		h.Swap(m)
	}
	return h
}

// Current returns the model in service.
func (h *Holder) Current() (*compat.Model, error) {
	m := h.cur.Load()
	if m == nil {
		return nil, ErrModelUnavailable
	}
	return m, nil
}

// Swap installs m and returns the previous model.
func (h *Holder) Swap(m *compat.Model) *compat.Model {
	if m == nil {
		return h.cur.Load()
	}
	old := h.cur.Swap(m)
	metrics.RecordArtifactSwap(m.Artifact().CreatedAt.Unix())
	return old
}
