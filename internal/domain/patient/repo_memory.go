package patient

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type patientRepoMemory struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]Patient
}

// NewRepoMemory returns a process-local Repository. Records are lost on exit.
func NewRepoMemory() Repository {
	return &patientRepoMemory{patients: make(map[uuid.UUID]Patient)}
}

func (r *patientRepoMemory) Create(_ context.Context, p *Patient) error {
	id, err := newID()
	if err != nil {
		return fmt.Errorf("generate id: %w", err)
	}
	p.ID = id
	p.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.patients[p.ID] = *p
	r.mu.Unlock()
	return nil
}

func (r *patientRepoMemory) List(_ context.Context) ([]*Patient, error) {
	r.mu.RLock()
	items := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		p := p
		items = append(items, &p)
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return bytes.Compare(items[i].ID[:], items[j].ID[:]) > 0
	})
	return items, nil
}

func (r *patientRepoMemory) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[id]; !ok {
		return ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

func (r *patientRepoMemory) Ping(_ context.Context) error {
	return nil
}
