package metadata

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nesso/internal/testutil"
)

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantKind    Kind
		wantEntries []string
	}{
		{
			name:        "models",
			content:     testutil.ValidModelYAML,
			wantKind:    KindModels,
			wantEntries: []string{"orders"},
		},
		{
			name:        "sources use tables of first source",
			content:     testutil.ValidSourceYAML,
			wantKind:    KindSources,
			wantEntries: []string{"contacts"},
		},
		{
			name:        "seeds",
			content:     testutil.ValidSeedYAML,
			wantKind:    KindSeeds,
			wantEntries: []string{"countries"},
		},
		{
			name: "sources without tables",
			content: `version: 2
sources:
  - name: crm
`,
			wantKind:    KindSources,
			wantEntries: nil,
		},
		{
			name: "empty sources list",
			content: `version: 2
sources: []
`,
			wantKind:    KindSources,
			wantEntries: nil,
		},
		{
			name: "null models",
			content: `version: 2
models:
`,
			wantKind:    KindModels,
			wantEntries: nil,
		},
		{
			name: "sources win over models",
			content: `version: 2
models:
  - name: m
sources:
  - name: s
    tables:
      - name: t
`,
			wantKind:    KindSources,
			wantEntries: []string{"t"},
		},
		{
			name: "models win over seeds",
			content: `seeds:
  - name: s
models:
  - name: m
`,
			wantKind:    KindModels,
			wantEntries: []string{"m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("schema.yml", []byte(tt.content), ParseOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, doc.Kind)

			var names []string
			for _, e := range doc.Entries {
				names = append(names, e.Name)
			}
			assert.Equal(t, tt.wantEntries, names)
		})
	}
}

func TestParse_Version(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *int
	}{
		{name: "integer", content: "version: 2\nmodels: []\n", want: intPtr(2)},
		{name: "other integer", content: "version: 1\nmodels: []\n", want: intPtr(1)},
		{name: "missing", content: "models: []\n", want: nil},
		{name: "quoted string", content: "version: \"2\"\nmodels: []\n", want: nil},
		{name: "float", content: "version: 2.0\nmodels: []\n", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("schema.yml", []byte(tt.content), ParseOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Version)
		})
	}
}

func TestParse_EntryFields(t *testing.T) {
	doc, err := Parse("orders.yml", []byte(testutil.ValidModelYAML), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Entries, 1)

	e := doc.Entries[0]
	assert.Equal(t, "Orders placed in the web shop.", e.Description.String())
	require.Len(t, e.Columns, 1)
	assert.Equal(t, "id", e.Columns[0].Name)
	assert.Equal(t, "Order identifier.", e.Columns[0].Description.String())
	assert.Equal(t, "@data-team", e.Meta.TechnicalOwner.String())
	assert.Equal(t, "a@acme.com", e.Meta.BusinessOwner.String())
	assert.False(t, e.Description.IsEmpty())
}

func TestParse_MissingMetaAndColumns(t *testing.T) {
	doc, err := Parse("m.yml", []byte("version: 2\nmodels:\n  - name: bare\n"), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Entries, 1)

	assert.Empty(t, doc.Entries[0].Columns)
	assert.True(t, doc.Entries[0].Description.IsEmpty())
	assert.True(t, doc.Entries[0].Meta.TechnicalOwner.IsEmpty())
	assert.True(t, doc.Entries[0].Meta.BusinessOwner.IsEmpty())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    ParseOptions
		target  error
	}{
		{name: "no kind key", content: "version: 2\nmacros: []\n", target: ErrUnknownKind},
		{name: "empty file", content: "", target: ErrUnknownKind},
		{name: "strict rejects two kinds", content: "models: []\nseeds: []\n", opts: ParseOptions{Strict: true}, target: ErrAmbiguousKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.yml", []byte(tt.content), tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.Contains(t, err.Error(), "bad.yml")
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse("bad.yml", []byte("models: [unclosed\n"), ParseOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse bad.yml")
	})

	t.Run("top level list", func(t *testing.T) {
		_, err := Parse("bad.yml", []byte("- a\n- b\n"), ParseOptions{})
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteFile(t, root, "models/orders.yml", testutil.ValidModelYAML)

	doc, err := Load(path, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)

	_, err = Load(filepath.Join(root, "missing.yml"), ParseOptions{})
	require.Error(t, err)
}

func TestDocument_HasEntry(t *testing.T) {
	seeds, err := Parse("s.yml", []byte(testutil.ValidSeedYAML), ParseOptions{})
	require.NoError(t, err)
	assert.True(t, seeds.HasEntry("countries"))
	assert.True(t, seeds.HasEntry("Countries"), "seed names are case-insensitive")
	assert.False(t, seeds.HasEntry("currencies"))

	models, err := Parse("m.yml", []byte(testutil.ValidModelYAML), ParseOptions{})
	require.NoError(t, err)
	assert.True(t, models.HasEntry("orders"))
	assert.False(t, models.HasEntry("Orders"))
}

func intPtr(v int) *int {
	return &v
}
