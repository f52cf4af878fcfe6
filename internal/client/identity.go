package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/moesamiii/production/internal/store"
)

const defaultUserName = "Guest"

type identityFile struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// LoadIdentity reads the persisted visitor identity, or mints one when
// the file is missing: a random id plus the given name. The admin flag
// is never persisted; every process starts as a regular visitor.
func LoadIdentity(path, name string) (*store.UserIdentity, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		var persisted identityFile
		if err := json.Unmarshal(data, &persisted); err == nil && persisted.UserID != "" {
			return &store.UserIdentity{
				ID:   persisted.UserID,
				Name: persisted.UserName,
			}, nil
		}
		// Corrupt file, fall through and mint a fresh identity.
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	identity := &store.UserIdentity{
		ID:   newUserID(),
		Name: strings.TrimSpace(name),
	}
	if identity.Name == "" {
		identity.Name = defaultUserName
	}
	if err := SaveIdentity(path, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// SaveIdentity writes the id and name to disk. IsAdmin is dropped on
// purpose.
func SaveIdentity(path string, identity *store.UserIdentity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(identityFile{
		UserID:   identity.ID,
		UserName: identity.Name,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func newUserID() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
