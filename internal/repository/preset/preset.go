package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/repository"

	"gopkg.in/yaml.v3"
)

// Repository is the read-only preset catalogue: the built-ins followed by
// any presets loaded from a file, in declaration order.
type Repository struct {
	presets []domain.Preset
	index   map[string]int
}

type presetFile struct {
	Presets []domain.Preset `json:"presets" yaml:"presets"`
}

func NewRepository(extra ...domain.Preset) (*Repository, error) {
	r := &Repository{index: make(map[string]int)}

	for _, p := range append(domain.BuiltinPresets(), extra...) {
		if err := r.add(p); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// NewFromFile loads extra presets from a YAML or JSON file. An empty path
// yields the built-ins only.
func NewFromFile(path string) (*Repository, error) {
	if path == "" {
		return NewRepository()
	}

	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	return NewRepository(extra...)
}

func LoadFile(path string) ([]domain.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var file presetFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &file)
	default:
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse presets file %s: %w", path, err)
	}

	return file.Presets, nil
}

func (r *Repository) add(p domain.Preset) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: preset without a name", repository.ErrStorageError)
	}

	keys := []string{strings.ToLower(p.Name), p.Slug()}
	for _, k := range keys {
		if _, ok := r.index[k]; ok {
			return fmt.Errorf("%w: %q", repository.ErrDuplicatePreset, p.Name)
		}
	}

	r.presets = append(r.presets, p)
	for _, k := range keys {
		r.index[k] = len(r.presets) - 1
	}
	return nil
}

func (r *Repository) List() []domain.Preset {
	out := make([]domain.Preset, len(r.presets))
	copy(out, r.presets)
	return out
}

// Find accepts the display name in any case or the slug.
func (r *Repository) Find(name string) (domain.Preset, error) {
	i, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.Preset{}, fmt.Errorf("%w: %q", repository.ErrPresetNotFound, name)
	}
	return r.presets[i], nil
}

// LoadConfigFile reads a single ProcessingConfig from YAML or JSON. Keys
// missing from the file keep their DefaultConfig values.
func LoadConfigFile(path string) (domain.ProcessingConfig, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
