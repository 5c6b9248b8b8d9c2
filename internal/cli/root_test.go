package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nesso/internal/cli/commands"
	"github.com/leapstack-labs/nesso/internal/cli/config"
	clitestutil "github.com/leapstack-labs/nesso/internal/cli/testutil"
	"github.com/leapstack-labs/nesso/internal/testutil"
)

const staleModelYAML = `version: 1
models:
  - name: customers
    description: Customers.
    meta:
      technical_owner: "@data-team"
      business_owner: "@sales"
`

func resetEnv(t *testing.T) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	for _, key := range []string{"NESSO_EMAIL_DOMAIN", "NESSO_SCHEMA_VERSION", "NESSO_OUTPUT", "NESSO_PROFILES_DIR", "NESSO_STRICT", "NESSO_VERBOSE", "NESSO_DISABLED_RULES", "NESSO_CEILING_DIR"} {
		t.Setenv(key, "")
	}
}

func TestRootCommand_Help(t *testing.T) {
	resetEnv(t)

	res := clitestutil.RunCommand(t, NewRootCmd(), "", "--help")
	require.NoError(t, res.Err)
	for _, sub := range []string{"validate", "project", "source", "seed", "model", "rules", "doctor", "init", "version"} {
		assert.Contains(t, res.Stdout, sub)
	}
	assert.Contains(t, res.Stdout, "--email-domain")
}

func TestRootCommand_Version(t *testing.T) {
	resetEnv(t)

	res := clitestutil.RunCommand(t, NewRootCmd(), "", "--version")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "nesso "+Version)
}

func TestRootCommand_FlagsReachCommands(t *testing.T) {
	resetEnv(t)
	root := testutil.SetupDBTProject(t, map[string]string{
		"models/orders.yml": testutil.ValidModelYAML,
	})
	t.Chdir(t.TempDir())

	res := clitestutil.RunCommand(t, NewRootCmd(), "", "validate", root, "--email-domain", "acme.com")
	require.NoError(t, res.Err)

	res = clitestutil.RunCommand(t, NewRootCmd(), "", "validate", root, "--email-domain", "other.org", "-o", "json")
	require.ErrorIs(t, res.Err, commands.ErrValidationFailed)

	var out struct {
		Valid  bool `json:"valid"`
		Issues []struct {
			RuleID string `json:"rule_id"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &out))
	assert.False(t, out.Valid)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "MV03", out.Issues[0].RuleID)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	resetEnv(t)
	root := testutil.SetupDBTProject(t, map[string]string{
		"models/customers.yml": staleModelYAML,
		"nesso.yaml":           "email_domain: acme.com\ndisabled_rules: [MV04]\n",
	})
	t.Chdir(filepath.Join(root, "models"))

	res := clitestutil.RunCommand(t, NewRootCmd(), "", "validate")
	require.NoError(t, res.Err, "MV04 is disabled in nesso.yaml")

	res = clitestutil.RunCommand(t, NewRootCmd(), "", "validate", "--disable", "MV01")
	require.ErrorIs(t, res.Err, commands.ErrValidationFailed, "flags replace the configured list")
}

func TestRootCommand_Verbose(t *testing.T) {
	resetEnv(t)
	root := testutil.SetupDBTProject(t, map[string]string{
		"models/orders.yml": testutil.ValidModelYAML,
	})
	t.Chdir(root)

	res := clitestutil.RunCommand(t, NewRootCmd(), "", "project", "locate", "-v")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stderr, "located dbt project")

	res = clitestutil.RunCommand(t, NewRootCmd(), "", "project", "locate")
	require.NoError(t, res.Err)
	assert.NotContains(t, res.Stderr, "located dbt project")
}

func TestRootCommand_InvalidOutput(t *testing.T) {
	resetEnv(t)
	t.Chdir(t.TempDir())

	res := clitestutil.RunCommand(t, NewRootCmd(), "", "rules", "-o", "xml")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "unknown output format")
}

func TestCompletionCommand(t *testing.T) {
	resetEnv(t)

	res := clitestutil.RunCommand(t, NewRootCmd(), "", "completion", "bash")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "nesso")

	res = clitestutil.RunCommand(t, NewRootCmd(), "", "completion", "tcsh")
	require.Error(t, res.Err)
}
