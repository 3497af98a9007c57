package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is a saved column assignment for one inventory tool's export
// layout. It may also override export options from the environment.
//
//	headers: [LotNum, Title, Desc. 1, Desc. 2, Desc. 3, Desc. 4, Desc. 5, LoEst, HiEst, "[Ignore]"]
//	encoding: windows-1252
//	export:
//	  compute_start_bids: true
type Profile struct {
	Headers  []string         `yaml:"headers"`
	Encoding string           `yaml:"encoding,omitempty"`
	Export   *ExportOverrides `yaml:"export,omitempty"`
}

// ExportOverrides replaces individual ExportConfig fields when set.
type ExportOverrides struct {
	BoilerplateCondition *string `yaml:"boilerplate_condition,omitempty"`
	ComputeStartBids     *bool   `yaml:"compute_start_bids,omitempty"`
	EmptyStartBidsOnly   *bool   `yaml:"empty_start_bids_only,omitempty"`
	CheckTitleQuantities *bool   `yaml:"check_title_quantities,omitempty"`
}

// ParseProfile decodes a profile from YAML bytes.
func ParseProfile(data []byte) (*Profile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("profile: payload is empty")
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", err)
	}
	if len(p.Headers) == 0 {
		return nil, fmt.Errorf("profile: no headers assigned")
	}
	for i, h := range p.Headers {
		p.Headers[i] = strings.TrimSpace(h)
	}
	return &p, nil
}

// LoadProfile reads a profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Apply writes the profile's overrides into cfg. A boilerplate condition in
// the profile also enables boilerplate mode. The result is re-validated.
func (p *Profile) Apply(cfg *Config) error {
	if p.Encoding != "" {
		cfg.Source.Encoding = p.Encoding
	}
	if o := p.Export; o != nil {
		if o.BoilerplateCondition != nil {
			cfg.Export.BoilerplateEnabled = true
			cfg.Export.BoilerplateText = *o.BoilerplateCondition
		}
		if o.ComputeStartBids != nil {
			cfg.Export.ComputeStartBids = *o.ComputeStartBids
		}
		if o.EmptyStartBidsOnly != nil {
			cfg.Export.EmptyStartBidsOnly = *o.EmptyStartBidsOnly
		}
		if o.CheckTitleQuantities != nil {
			cfg.Export.CheckTitleQuantities = *o.CheckTitleQuantities
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}
