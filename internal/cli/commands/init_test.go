package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	clitestutil "github.com/leapstack-labs/nesso/internal/cli/testutil"
	"github.com/leapstack-labs/nesso/internal/testutil"
)

func TestInitCommand(t *testing.T) {
	setupCommandEnv(t)
	dir := testutil.SetupDBTProject(t, nil)

	res := clitestutil.RunCommand(t, NewInitCommand(), "", dir)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "nesso configured!")
	assert.NotContains(t, res.Stdout, "nested dbt/<name>")
	assert.Empty(t, res.Stderr)

	data, err := os.ReadFile(filepath.Join(dir, "nesso.yaml"))
	require.NoError(t, err)

	var got initConfig
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "acme.com", got.EmailDomain)
	assert.Equal(t, 2, got.SchemaVersion)
	assert.False(t, got.Strict)
	assert.Empty(t, got.DisabledRules)
}

func TestInitCommand_ExistingConfig(t *testing.T) {
	setupCommandEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "nesso.yaml")
	require.NoError(t, os.WriteFile(path, []byte("email_domain: keep.me\n"), 0600))

	res := clitestutil.RunCommand(t, NewInitCommand(), "", dir)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "email_domain: keep.me\n", string(data))

	res = clitestutil.RunCommand(t, NewInitCommand(), "", dir, "--force")
	require.NoError(t, res.Err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "email_domain: acme.com")
}

func TestInitCommand_Warnings(t *testing.T) {
	setupCommandEnv(t)
	t.Setenv("NESSO_EMAIL_DOMAIN", "")
	dir := filepath.Join(t.TempDir(), "repo")

	res := clitestutil.RunCommand(t, NewInitCommand(), "", dir)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stderr, "email_domain is empty")
	assert.Contains(t, res.Stdout, "nested dbt/<name> projects will be searched")
	assert.FileExists(t, filepath.Join(dir, "nesso.yaml"))
}
