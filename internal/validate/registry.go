package validate

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/nesso/internal/metadata"
)

// globalRegistry is the single global registry for metadata rules.
var globalRegistry = NewRegistry()

// Registry stores registered metadata rules.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// RuleDef is a metadata rule definition.
type RuleDef struct {
	ID          string // Unique identifier, e.g., "MV01"
	Name        string // Human-readable name, e.g., "descriptions"
	Description string
	Check       Check

	// Documentation
	Rationale string
	Fix       string
}

// Check inspects one document and returns its findings.
// A nil or empty result means the document passes the rule.
type Check func(ctx *Context) []Diagnostic

// Context is what a rule sees when checking a document.
type Context struct {
	Document      *metadata.Document
	EmailDomain   string
	SchemaVersion int
}

// Diagnostic is a single rule violation.
type Diagnostic struct {
	RuleID  string `json:"rule_id"`
	Rule    string `json:"rule"`
	File    string `json:"file"`
	Entry   string `json:"entry,omitempty"`
	Message string `json:"message"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]RuleDef)}
}

// Register adds a rule, replacing any rule with the same ID.
func (r *Registry) Register(rule RuleDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID] = rule
}

// All returns the rules ordered by ID, which is the order they are applied in.
func (r *Registry) All() []RuleDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]RuleDef, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})
	return rules
}

// ByID returns a rule by its ID.
func (r *Registry) ByID(id string) (RuleDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.Register(rule)
}

// GetAll returns all globally registered rules ordered by ID.
func GetAll() []RuleDef {
	return globalRegistry.All()
}

// GetByID returns a globally registered rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	return globalRegistry.ByID(id)
}

// Count returns the number of globally registered rules.
func Count() int {
	return globalRegistry.Len()
}
