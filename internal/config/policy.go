package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type policyFile struct {
	Analytics *AnalyticsConfig `yaml:"analytics"`
	Leave     *LeaveConfig     `yaml:"leave"`
}

// LoadPolicyFile overrides analytics thresholds and leave entitlements from a YAML file.
// Keys missing from the file keep their current values.
func (c *Config) LoadPolicyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}
	return c.applyPolicy(raw)
}

func (c *Config) applyPolicy(raw []byte) error {
	analytics := c.Analytics
	leave := LeaveConfig{Entitlements: map[string]int{}}
	for k, v := range c.Leave.Entitlements {
		leave.Entitlements[k] = v
	}

	p := policyFile{Analytics: &analytics, Leave: &leave}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("parse policy file: %w", err)
	}

	c.Analytics = analytics
	c.Leave = leave
	return nil
}
