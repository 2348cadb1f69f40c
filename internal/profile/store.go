package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	profileDirectoryPermissions     = 0o700
	profileFilePermissions          = 0o600
	temporaryFilePatternConstant    = ".profile-*.yaml"
	readProfileTemplateConstant     = "read profile %s: %w"
	decodeProfileTemplateConstant   = "decode profile %s: %w"
	encodeProfileTemplateConstant   = "encode profile: %w"
	writeProfileTemplateConstant    = "write profile %s: %w"
	deleteProfileTemplateConstant   = "delete profile %s: %w"
	createDirectoryTemplateConstant = "create profile directory %s: %w"
)

// ErrStorePathRequired indicates the store was constructed without a file path.
var ErrStorePathRequired = errors.New("profile path must be provided")

// Store reads and writes a Profile as YAML.
type Store struct {
	path string
}

// NewStore constructs a Store for the provided file path.
func NewStore(path string) (*Store, error) {
	if len(path) == 0 {
		return nil, ErrStorePathRequired
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (store *Store) Path() string {
	return store.path
}

// Load reads the profile. A missing file yields an empty profile.
func (store *Store) Load() (Profile, error) {
	contents, readError := os.ReadFile(store.path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf(readProfileTemplateConstant, store.path, readError)
	}

	var loaded Profile
	if decodeError := yaml.Unmarshal(contents, &loaded); decodeError != nil {
		return Profile{}, fmt.Errorf(decodeProfileTemplateConstant, store.path, decodeError)
	}
	return loaded.Sanitize(), nil
}

// Save writes the profile atomically with owner-only permissions.
func (store *Store) Save(profile Profile) error {
	encoded, encodeError := yaml.Marshal(profile.Sanitize())
	if encodeError != nil {
		return fmt.Errorf(encodeProfileTemplateConstant, encodeError)
	}

	directory := filepath.Dir(store.path)
	if mkdirError := os.MkdirAll(directory, profileDirectoryPermissions); mkdirError != nil {
		return fmt.Errorf(createDirectoryTemplateConstant, directory, mkdirError)
	}

	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePatternConstant)
	if createError != nil {
		return fmt.Errorf(writeProfileTemplateConstant, store.path, createError)
	}
	temporaryPath := temporaryFile.Name()
	defer os.Remove(temporaryPath)

	if chmodError := temporaryFile.Chmod(profileFilePermissions); chmodError != nil {
		temporaryFile.Close()
		return fmt.Errorf(writeProfileTemplateConstant, store.path, chmodError)
	}
	if _, writeError := temporaryFile.Write(encoded); writeError != nil {
		temporaryFile.Close()
		return fmt.Errorf(writeProfileTemplateConstant, store.path, writeError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf(writeProfileTemplateConstant, store.path, closeError)
	}
	if renameError := os.Rename(temporaryPath, store.path); renameError != nil {
		return fmt.Errorf(writeProfileTemplateConstant, store.path, renameError)
	}
	return nil
}

// Update loads the profile, applies the mutation, and saves the result.
// Nothing is written when the mutation returns an error.
func (store *Store) Update(mutate func(*Profile) error) (Profile, error) {
	current, loadError := store.Load()
	if loadError != nil {
		return Profile{}, loadError
	}
	if mutateError := mutate(&current); mutateError != nil {
		return Profile{}, mutateError
	}
	if saveError := store.Save(current); saveError != nil {
		return Profile{}, saveError
	}
	return current, nil
}

// Delete removes the profile file. Deleting a missing profile is not an error.
func (store *Store) Delete() error {
	removeError := os.Remove(store.path)
	if removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
		return fmt.Errorf(deleteProfileTemplateConstant, store.path, removeError)
	}
	return nil
}
