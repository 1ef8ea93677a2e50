package storage

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]RunRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.runs[run.ID] = cloneRun(run)
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return RunRecord{}, false, ErrNotInitialized
	}
	run, ok := s.runs[id]
	if !ok {
		return RunRecord{}, false, nil
	}
	return cloneRun(run), true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, sweepID string) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	var out []RunRecord
	for _, run := range s.runs {
		if sweepID == "" || run.SweepID == sweepID {
			out = append(out, cloneRun(run))
		}
	}
	sortRuns(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneRun(r RunRecord) RunRecord {
	r.Wear = append([]int(nil), r.Wear...)
	r.Heatmap = append([]int(nil), r.Heatmap...)
	r.Agents = append(r.Agents[:0:0], r.Agents...)
	return r
}

// sortRuns orders runs by accuracy, best first, then by id.
func sortRuns(runs []RunRecord) {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Accuracy != runs[j].Accuracy {
			return runs[i].Accuracy > runs[j].Accuracy
		}
		return runs[i].ID < runs[j].ID
	})
}
