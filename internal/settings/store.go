package settings

import (
	"dashcfg/internal/models"
	"dashcfg/internal/providers"
	"dashcfg/internal/settings/interfaces"
	"dashcfg/internal/structures"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"os"
	"path/filepath"
	"time"
)

const (
	dirMode  os.FileMode = 0755
	fileMode os.FileMode = 0644
)

// Store persists the dashboard settings document in a single JSON file.
// Saves replace the file atomically; concurrent saves are last-writer-wins.
type Store struct {
	fs      afero.Fs
	path    string
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewStore(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.StoreInterface {
	return NewStoreWithFs(afero.NewOsFs(), conf.Storage.FilePath, logger, metrics)
}

func NewStoreWithFs(fs afero.Fs, path string, logger providers.Logger, metrics providers.MetricsProviderInterface) *Store {
	return &Store{
		fs:      fs,
		path:    path,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the settings file is on disk.
func (s *Store) Exists() bool {
	ok, err := afero.Exists(s.fs, s.path)
	return err == nil && ok
}

// Load never fails: a missing or unreadable file yields the defaults.
func (s *Store) Load() models.Document {
	s.ensureDir()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Errorf(providers.TypeApp, "Error reading settings %s: %s", s.path, err)
		}
		return models.DefaultDocument()
	}

	value, err := models.DecodeValue(data)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error loading settings %s: %s", s.path, err)
		return models.DefaultDocument()
	}

	stored, ok := value.(map[string]any)
	if !ok {
		s.logger.Errorf(providers.TypeApp, "Error loading settings %s: top-level value is %T, not an object", s.path, value)
		return models.DefaultDocument()
	}

	return Merge(models.DefaultDocument(), stored)
}

// Save writes doc to a temp file next to the target and renames it into place.
// On error the previous file is left as it was.
func (s *Store) Save(doc models.Document) error {
	start := time.Now()
	err := s.save(doc)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.metrics.IncSettingsSaves(err == nil)

	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error saving settings %s: %s", s.path, err)
		return err
	}
	s.logger.Infof(providers.TypeApp, "Settings saved to %s", s.path)
	return nil
}

func (s *Store) save(doc models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	data = append(data, '\n')

	s.ensureDir()

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	file, err := afero.TempFile(s.fs, dir, base+".*.tmp")
	if err != nil {
		return err
	}
	tmpFile := file.Name()

	if _, err = file.Write(data); err != nil {
		file.Close()
		s.fs.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		s.fs.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		s.fs.Remove(tmpFile)
		return err
	}

	if err = s.fs.Chmod(tmpFile, fileMode); err != nil {
		s.fs.Remove(tmpFile)
		return err
	}

	if err = s.fs.Rename(tmpFile, s.path); err != nil {
		s.fs.Remove(tmpFile)
		return err
	}
	return nil
}

// UpdateSection overlays fields onto one section of doc in memory.
// Field names are not checked against the known schema.
func (s *Store) UpdateSection(doc models.Document, section string, fields map[string]any) {
	overlay(doc, section, fields)
}

func (s *Store) ensureDir() {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, dirMode); err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot create settings directory %s: %s", dir, err)
	}
}
