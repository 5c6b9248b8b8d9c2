package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// DefaultManifest is a dbt_project.yml with the usual model and seed paths.
const DefaultManifest = `name: lakehouse
profile: lakehouse
version: "1.0.0"
model-paths: ["models"]
seed-paths: ["seeds"]
`

// ValidModelYAML documents one model that passes every metadata rule for
// the acme.com domain and schema version 2.
const ValidModelYAML = `version: 2
models:
  - name: orders
    description: Orders placed in the web shop.
    columns:
      - name: id
        description: Order identifier.
    meta:
      technical_owner: "@data-team"
      business_owner: a@acme.com
`

// ValidSourceYAML documents one source table that passes every rule.
const ValidSourceYAML = `version: 2
sources:
  - name: crm
    schema: crm
    tables:
      - name: contacts
        description: CRM contacts.
        columns:
          - name: id
            description: Contact identifier.
        meta:
          technical_owner: t@acme.com
          business_owner: "@sales"
`

// ValidSeedYAML documents one seed that passes every rule.
const ValidSeedYAML = `version: 2
seeds:
  - name: countries
    description: ISO country codes.
    columns:
      - name: code
        description: Alpha-2 code.
    meta:
      technical_owner: "@data-team"
      business_owner: "@finance"
`

// WriteFile writes content to root/rel, creating parent directories.
// It returns the absolute path of the file.
func WriteFile(t testing.TB, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

// SetupDBTProject creates a temporary dbt project with DefaultManifest and
// the given files (relative path to content). It returns the project root.
func SetupDBTProject(t testing.TB, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	WriteFile(t, root, "dbt_project.yml", DefaultManifest)
	for _, dir := range []string{"models", "seeds"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0750); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}
	return root
}
