package rules

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nesso/internal/metadata"
	"github.com/leapstack-labs/nesso/internal/testutil"
	"github.com/leapstack-labs/nesso/internal/validate"
)

func newContext(t *testing.T, content, domain string) *validate.Context {
	t.Helper()
	doc, err := metadata.Parse("schema.yml", []byte(content), metadata.ParseOptions{})
	require.NoError(t, err)
	return &validate.Context{
		Document:      doc,
		EmailDomain:   domain,
		SchemaVersion: 2,
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"MV01", "MV02", "MV03", "MV04"} {
		rule, ok := validate.GetByID(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, rule.Name)
		assert.NotNil(t, rule.Check)
	}
}

func TestValidFixturesPass(t *testing.T) {
	fixtures := map[string]string{
		"model":  testutil.ValidModelYAML,
		"source": testutil.ValidSourceYAML,
		"seed":   testutil.ValidSeedYAML,
	}
	for name, content := range fixtures {
		t.Run(name, func(t *testing.T) {
			ctx := newContext(t, content, "acme.com")
			assert.Empty(t, checkDescriptions(ctx))
			assert.Empty(t, technicalOwner.check(ctx))
			assert.Empty(t, businessOwner.check(ctx))
			assert.Empty(t, checkSchemaVersion(ctx))
		})
	}
}

type descriptionCase struct {
	name      string
	content   string
	wantEntry string
}

func TestMV01_Descriptions(t *testing.T) {
	tests := []descriptionCase{
		{
			name: "empty entry description",
			content: `version: 2
models:
  - name: orders
    description: ""
    columns:
      - name: id
        description: Order id.
`,
			wantEntry: "orders",
		},
		{
			name: "missing entry description",
			content: `version: 2
models:
  - name: orders
`,
			wantEntry: "orders",
		},
		{
			name: "empty column description",
			content: `version: 2
models:
  - name: ok
    description: Fine.
  - name: customers
    description: Customers.
    columns:
      - name: id
        description: Id.
      - name: email
`,
			wantEntry: "customers",
		},
		{
			name: "source table column",
			content: `version: 2
sources:
  - name: crm
    tables:
      - name: contacts
        description: Contacts.
        columns:
          - name: id
            description: ""
`,
			wantEntry: "contacts",
		},
	}

	for _, value := range []string{"false", "0", "~"} {
		tests = append(tests,
			descriptionCase{
				name:      "entry description " + value,
				content:   "version: 2\nmodels:\n  - name: orders\n    description: " + value + "\n",
				wantEntry: "orders",
			},
			descriptionCase{
				name:      "column description " + value,
				content:   "version: 2\nmodels:\n  - name: orders\n    description: Orders.\n    columns:\n      - name: id\n        description: " + value + "\n",
				wantEntry: "orders",
			},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := checkDescriptions(newContext(t, tt.content, ""))
			require.Len(t, diags, 1)
			assert.Equal(t, "MV01", diags[0].RuleID)
			assert.Equal(t, tt.wantEntry, diags[0].Entry)
			assert.Equal(t, "Please fill all descriptions in schema.yml file.", diags[0].Message)
		})
	}

	t.Run("no entries", func(t *testing.T) {
		assert.Empty(t, checkDescriptions(newContext(t, "version: 2\nmodels: []\n", "")))
	})
}

func TestOwnerRules(t *testing.T) {
	doc := func(tech, biz string) string {
		return `version: 2
models:
  - name: orders
    description: Orders.
    meta:
      technical_owner: "` + tech + `"
      business_owner: "` + biz + `"
`
	}

	tests := []struct {
		name     string
		tech     string
		biz      string
		domain   string
		wantTech string
		wantBiz  string
	}{
		{name: "group and email", tech: "@data", biz: "a@acme.com", domain: "acme.com"},
		{
			name: "foreign domain", tech: "a@other.com", biz: "@sales", domain: "acme.com",
			wantTech: "Please insert valid technical owner in schema.yml file. technical_owner should be an email ending with @acme.com or a group starting with '@'.",
		},
		{
			name: "plain name", tech: "@data", biz: "alice", domain: "acme.com",
			wantBiz: "Please insert valid business owner in schema.yml file. business_owner should be an email ending with @acme.com or a group starting with '@'.",
		},
		{name: "no domain accepts anything", tech: "alice", biz: "bob@other.com", domain: ""},
		{
			name: "empty owners", tech: "", biz: "", domain: "acme.com",
			wantTech: "Please fill in the technical owner in the schema.yml file.",
			wantBiz:  "Please fill in the business owner in the schema.yml file.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t, doc(tt.tech, tt.biz), tt.domain)

			assertMessage(t, technicalOwner.check(ctx), "MV02", tt.wantTech)
			assertMessage(t, businessOwner.check(ctx), "MV03", tt.wantBiz)
		})
	}
}

func TestOwnerRules_FalsyValues(t *testing.T) {
	for _, value := range []string{"false", "0", "~", "\"\"", "[]"} {
		t.Run(value, func(t *testing.T) {
			content := "version: 2\nmodels:\n  - name: orders\n    description: Orders.\n    meta:\n" +
				"      technical_owner: " + value + "\n      business_owner: " + value + "\n"

			// Without a domain every filled owner is accepted, so only the
			// missing check can catch these values.
			ctx := newContext(t, content, "")
			assertMessage(t, technicalOwner.check(ctx), "MV02", "Please fill in the technical owner in the schema.yml file.")
			assertMessage(t, businessOwner.check(ctx), "MV03", "Please fill in the business owner in the schema.yml file.")
		})
	}

	t.Run("quoted zero is a value", func(t *testing.T) {
		ctx := newContext(t, "version: 2\nmodels:\n  - name: orders\n    meta:\n      technical_owner: \"0\"\n", "")
		assert.Empty(t, technicalOwner.check(ctx))
	})
}

func TestOwnerRules_MissingBeforeInvalid(t *testing.T) {
	ctx := newContext(t, `version: 2
models:
  - name: first
    meta:
      technical_owner: someone@else.com
  - name: second
`, "acme.com")

	diags := technicalOwner.check(ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "second", diags[0].Entry)
	assert.Contains(t, diags[0].Message, "Please fill in the technical owner")
}

func TestMV04_SchemaVersion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		pass    bool
	}{
		{name: "matching", content: "version: 2\nmodels: []\n", want: 2, pass: true},
		{name: "other expected", content: "version: 3\nmodels: []\n", want: 3, pass: true},
		{name: "mismatch", content: "version: 1\nmodels: []\n", want: 2},
		{name: "missing", content: "models: []\n", want: 2},
		{name: "quoted", content: "version: \"2\"\nmodels: []\n", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t, tt.content, "")
			ctx.SchemaVersion = tt.want

			diags := checkSchemaVersion(ctx)
			if tt.pass {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, "Please use version "+strconv.Itoa(tt.want)+" in schema.yml file.", diags[0].Message)
		})
	}
}

func assertMessage(t *testing.T, diags []validate.Diagnostic, ruleID, want string) {
	t.Helper()
	if want == "" {
		assert.Empty(t, diags)
		return
	}
	require.Len(t, diags, 1)
	assert.Equal(t, ruleID, diags[0].RuleID)
	assert.Equal(t, want, diags[0].Message)
}
