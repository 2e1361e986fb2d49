// Package groupconfig parses a YAML group-configuration document into the
// plain structured value the dataflow engine (internal/dataflow) consumes
// to seed an entry block's initial state.
package groupconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DispatchEntry names one function inside a contract and the block path
// (by label or index, kept as opaque strings; no other package in this
// module resolves them) that reaches it.
type DispatchEntry struct {
	Name         string   `yaml:"name"`
	DispatchPath []string `yaml:"dispatch_path"`
}

// Contract is one deployed artifact referenced by a group template.
type Contract struct {
	Path        string          `yaml:"path"`
	ArtifactType string         `yaml:"artifact_type"`
	Version     int             `yaml:"version"`
	Dispatch    []DispatchEntry `yaml:"dispatch"`
}

// ApplicationRef points a group-template entry at a contract function.
type ApplicationRef struct {
	Contract string `yaml:"contract"`
	Function string `yaml:"function"`
}

// LogicSigRef points a group-template entry at a logic-signature contract.
type LogicSigRef struct {
	Contract string `yaml:"contract"`
	Function string `yaml:"function"`
}

// TemplateEntry is one slot of an ordered group template.
type TemplateEntry struct {
	TxnID         string          `yaml:"txn_id"`
	TxnType       string          `yaml:"txn_type"`
	Application   *ApplicationRef `yaml:"application,omitempty"`
	LogicSig      *LogicSigRef    `yaml:"logic_sig,omitempty"`
	AbsoluteIndex *int            `yaml:"absolute_index,omitempty"`
}

// GroupTemplate is a named, ordered sequence of transaction slots.
type GroupTemplate struct {
	Name    string          `yaml:"name"`
	Entries []TemplateEntry `yaml:"entries"`
}

// GroupConfig is the root document.
type GroupConfig struct {
	Templates []GroupTemplate     `yaml:"templates"`
	Contracts map[string]Contract `yaml:"contracts"`
}

// Load reads and parses the YAML document at path.
func Load(path string) (*GroupConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("groupconfig: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document already read into memory and validates its
// cross-references.
func Parse(data []byte) (*GroupConfig, error) {
	var cfg GroupConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("groupconfig: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate performs only structural checks: every template entry has a
// non-empty txn_id that is unique within its template, and every
// application/logic_sig contract name resolves to a declared contract. The
// referenced function names are not checked against the contract's dispatch
// entries.
// Semantic use of the configuration is entirely the dataflow engine's
// responsibility.
func (c *GroupConfig) validate() error {
	for _, tmpl := range c.Templates {
		seen := map[string]bool{}
		for _, e := range tmpl.Entries {
			if e.TxnID == "" {
				return fmt.Errorf("groupconfig: template %q has an entry with no txn_id", tmpl.Name)
			}
			if seen[e.TxnID] {
				return fmt.Errorf("groupconfig: template %q declares txn_id %q more than once", tmpl.Name, e.TxnID)
			}
			seen[e.TxnID] = true

			if e.Application != nil {
				if err := c.checkContractRef(tmpl.Name, e.Application.Contract); err != nil {
					return err
				}
			}
			if e.LogicSig != nil {
				if err := c.checkContractRef(tmpl.Name, e.LogicSig.Contract); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *GroupConfig) checkContractRef(templateName, name string) error {
	if _, ok := c.Contracts[name]; !ok {
		return fmt.Errorf("groupconfig: template %q references undeclared contract %q", templateName, name)
	}
	return nil
}

// TemplateByName returns the named template, if declared.
func (c *GroupConfig) TemplateByName(name string) (GroupTemplate, bool) {
	for _, t := range c.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return GroupTemplate{}, false
}
