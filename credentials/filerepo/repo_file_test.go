package filerepo_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cursortools/usage-agent/credentials"
	"github.com/cursortools/usage-agent/credentials/filerepo"
	agenterrors "github.com/cursortools/usage-agent/internal/errors"
)

func TestFileRepo(t *testing.T) {
	t.Run("save and load round trip", func(t *testing.T) {
		repo := filerepo.NewFileRepo(filepath.Join(t.TempDir(), "data"))
		cred := credentials.Credential{Token: "abc123", TeamID: "42"}

		require.NoError(t, repo.Save(cred))

		loaded, err := repo.Load()
		require.NoError(t, err)
		require.Equal(t, cred, loaded)
	})

	t.Run("save overwrites the previous credential", func(t *testing.T) {
		repo := filerepo.NewFileRepo(t.TempDir())

		require.NoError(t, repo.Save(credentials.Credential{Token: "old"}))
		require.NoError(t, repo.Save(credentials.Credential{Token: "new", TeamID: "7"}))

		loaded, err := repo.Load()
		require.NoError(t, err)
		require.Equal(t, "new", loaded.Token)
		require.Equal(t, "7", loaded.TeamID)
	})

	t.Run("load without a stored credential", func(t *testing.T) {
		repo := filerepo.NewFileRepo(t.TempDir())

		_, err := repo.Load()
		require.ErrorIs(t, err, agenterrors.ErrCredentialNotFound)
	})

	t.Run("credential file is owner only", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("file modes are not meaningful on windows")
		}
		dir := t.TempDir()
		repo := filerepo.NewFileRepo(dir)
		require.NoError(t, repo.Save(credentials.Credential{Token: "abc123"}))

		info, err := os.Stat(filepath.Join(dir, "credential.json"))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("delete removes the credential", func(t *testing.T) {
		repo := filerepo.NewFileRepo(t.TempDir())
		require.NoError(t, repo.Save(credentials.Credential{Token: "abc123"}))

		require.NoError(t, repo.Delete())

		_, err := repo.Load()
		require.ErrorIs(t, err, agenterrors.ErrCredentialNotFound)
	})

	t.Run("delete is a no-op without a stored credential", func(t *testing.T) {
		repo := filerepo.NewFileRepo(t.TempDir())
		require.NoError(t, repo.Delete())
	})
}
