package datafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	SectionPersons        = "persons"
	SectionFireStations   = "firestations"
	SectionMedicalRecords = "medicalrecords"
)

// File is a JSON document holding one array per record set. The embedded
// stores share a single File and each one only ever rewrites its own section.
type File struct {
	mu   sync.Mutex
	name string
}

func New(name string) *File {
	return &File{name: name}
}

func (f *File) Name() string {
	return f.name
}

func (f *File) readSections() (map[string]json.RawMessage, error) {
	var sections = map[string]json.RawMessage{}
	var bytes, err = os.ReadFile(f.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sections, nil
		}
		return nil, err
	}
	if len(bytes) == 0 {
		return sections, nil
	}
	if err := json.Unmarshal(bytes, &sections); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.name, err)
	}
	return sections, nil
}

// Read decodes section into v. A missing file or section leaves v untouched.
func (f *File) Read(section string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sections, err := f.readSections()
	if err != nil {
		return err
	}
	if raw, found := sections[section]; found && len(raw) > 0 {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("decode %s in %s: %w", section, f.name, err)
		}
	}
	return nil
}

// Write replaces section with v and keeps all other sections as they are.
func (f *File) Write(section string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sections, err := f.readSections()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", section, err)
	}
	sections[section] = raw

	bytes, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.name), filepath.Base(f.name)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(bytes); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.name)
}
