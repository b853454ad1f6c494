package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

type persisted struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// FilePersister keeps the token in a 0600 JSON file.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) *FilePersister { return &FilePersister{Path: path} }

func (f *FilePersister) Load() (string, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var p persisted
	if err := json.Unmarshal(b, &p); err != nil {
		return "", err
	}
	return p.Token, nil
}

func (f *FilePersister) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(persisted{Token: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, b, 0o600)
}

func (f *FilePersister) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
