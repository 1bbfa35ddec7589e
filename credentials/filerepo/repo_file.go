package filerepo

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/cursortools/usage-agent/credentials"
	agenterrors "github.com/cursortools/usage-agent/internal/errors"
)

const credentialFileName = "credential.json"

var _ credentials.Repo = (*FileRepo)(nil)

// FileRepo stores the credential as a JSON file in the agent's data folder.
// The file is written with owner-only permissions since it holds a live
// session token.
type FileRepo struct {
	path string
}

func NewFileRepo(dataFolder string) *FileRepo {
	return &FileRepo{path: filepath.Join(dataFolder, credentialFileName)}
}

func (r *FileRepo) Save(cred credentials.Credential) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return errors.Wrap(err, "[Save] failed to create data folder")
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[Save] failed to marshal credential")
	}

	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[Save] failed to write credential file")
	}
	return nil
}

func (r *FileRepo) Load() (credentials.Credential, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return credentials.Credential{}, agenterrors.ErrCredentialNotFound
		}
		return credentials.Credential{}, errors.Wrap(err, "[Load] failed to read credential file")
	}

	cred := credentials.Credential{}
	if err := json.Unmarshal(data, &cred); err != nil {
		return credentials.Credential{}, errors.Wrap(err, "[Load] failed to parse credential file")
	}
	if cred.Token == "" {
		return credentials.Credential{}, agenterrors.ErrCredentialNotFound
	}
	return cred, nil
}

func (r *FileRepo) Delete() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[Delete] failed to remove credential file")
	}
	return nil
}
