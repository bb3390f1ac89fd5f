package preference

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"crypto-dashboard/internal/domain"

	"gopkg.in/yaml.v3"
)

type prefsFile struct {
	Themes map[string]string `yaml:"themes"`
}

// FileStore keeps preferences in a YAML file on the local disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadTheme(ctx context.Context, key string) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read()
	if err != nil {
		return domain.DefaultTheme, err
	}
	return domain.ParseTheme(prefs.Themes[key]), nil
}

func (s *FileStore) SaveTheme(ctx context.Context, key string, theme domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read()
	if err != nil {
		return err
	}
	prefs.Themes[key] = string(theme)

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

func (s *FileStore) read() (*prefsFile, error) {
	prefs := &prefsFile{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		prefs.Themes = make(map[string]string)
		return prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	if prefs.Themes == nil {
		prefs.Themes = make(map[string]string)
	}
	return prefs, nil
}
