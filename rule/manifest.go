package rule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk YAML shape for a RuleSet, letting a host
// load rule text from a config file rather than building a RuleSet
// from in-memory strings. Grounded on SPEC_FULL.md §3.3/§4. It carries
// the RuleSet's name, context name, success criteria and category, and
// the rule source blocks themselves inline.
type Manifest struct {
	Name        string   `yaml:"name"`
	ContextName string   `yaml:"context_name"`
	Criteria    string   `yaml:"criteria"`
	Category    string   `yaml:"category"`
	Rules       []string `yaml:"rules"`
}

// LoadManifest reads and parses a YAML RuleSet manifest from path and
// builds the RuleSet it describes.
func LoadManifest(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest parses YAML manifest bytes (as LoadManifest does, from
// a file) and builds the RuleSet it describes.
func ParseManifest(data []byte) (*RuleSet, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing ruleset manifest: %w", err)
	}

	name := m.Name
	if name == "" {
		name = "Untitled"
	}
	contextName := m.ContextName
	if contextName == "" {
		contextName = "$"
	}
	criteria := LastPasses
	if m.Criteria != "" {
		criteria = ParseSuccessCriteria(m.Criteria)
	}

	return NewRuleSet(name, contextName, criteria, m.Category, m.Rules)
}
