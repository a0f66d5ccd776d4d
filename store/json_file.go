package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stevemurr/negocio-server/model"
)

// DatabaseFile is the document file name inside the data directory.
const DatabaseFile = "database.json"

// JsonFileStore stores the whole dataset as one JSON document on disk:
//
//	data_dir/
//	  database.json   # {"ventas": [...], "gastos": [...], "menuComidaCorrida": {...}}
//
// Writes go to a temporary file in the same directory which then replaces
// database.json by rename, so a crash mid-write leaves the previous
// document intact.
type JsonFileStore struct {
	documentStore
	path string
}

func NewJsonFileStore(dir string) (*JsonFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &JsonFileStore{path: filepath.Join(dir, DatabaseFile)}
	s.documentStore = documentStore{load: s.loadFile, save: s.saveFile, now: time.Now}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.saveFile(model.NewDataset()); err != nil {
			return nil, fmt.Errorf("initialize %s: %w", s.path, err)
		}
	}
	return s, nil
}

// Path returns the location of the document file.
func (s *JsonFileStore) Path() string {
	return s.path
}

func (s *JsonFileStore) loadFile() (*model.Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewDataset(), nil
		}
		return nil, err
	}
	ds := model.NewDataset()
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	ds.Normalize()
	return ds, nil
}

func (s *JsonFileStore) saveFile(ds *model.Dataset) error {
	b, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".database-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func (s *JsonFileStore) Close() error {
	return nil
}
