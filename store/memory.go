package store

import (
	"encoding/json"
	"time"

	"github.com/stevemurr/negocio-server/model"
)

// MemoryStore keeps the dataset in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	documentStore
	data *model.Dataset
}

func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{data: model.NewDataset()}
	m.documentStore = documentStore{
		load: func() (*model.Dataset, error) { return deepCopy(m.data) },
		save: func(ds *model.Dataset) error {
			cp, err := deepCopy(ds)
			if err != nil {
				return err
			}
			m.data = cp
			return nil
		},
		now: time.Now,
	}
	return m
}

// deepCopy returns a deep copy of a dataset by round-tripping through JSON.
func deepCopy(src *model.Dataset) (*model.Dataset, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	dst := model.NewDataset()
	if err := json.Unmarshal(b, dst); err != nil {
		return nil, err
	}
	dst.Normalize()
	return dst, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
