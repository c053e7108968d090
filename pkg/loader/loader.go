package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is a character as authored on disk.
type Definition struct {
	// Name identifies the character. Required, unique within a directory
	// (case-insensitive).
	Name string `yaml:"name"`

	// Owner is the platform ID or username of the character's owner.
	Owner string `yaml:"owner"`

	// Avatar is an optional default avatar URL.
	Avatar string `yaml:"avatar"`

	// Facts are the ordered fact lines fed to the evaluator.
	Facts []string `yaml:"facts"`

	// Path is the file the definition was loaded from. Not part of the
	// document itself.
	Path string `yaml:"-"`
}

// LoadFile reads and validates a single definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read character file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse character file %s: %w", filepath.Base(path), err)
	}

	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("character file %s has no name", filepath.Base(path))
	}
	def.Name = strings.TrimSpace(def.Name)
	def.Path = path

	return &def, nil
}

// LoadDir reads every .yaml/.yml definition in dir, sorted by name.
// Duplicate names (case-insensitive) across files are an error.
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read characters directory: %w", err)
	}

	var defs []*Definition
	seen := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !hasDefinitionExt(entry.Name()) {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		def, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(def.Name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate character name %q in %s and %s",
				def.Name, filepath.Base(prev), filepath.Base(def.Path))
		}
		seen[key] = def.Path

		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool {
		return strings.ToLower(defs[i].Name) < strings.ToLower(defs[j].Name)
	})

	return defs, nil
}

func hasDefinitionExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
