package config

import (
	"fmt"
	"strconv"
	"strings"

	"husky/internal/domain"
)

// Run setting keys accepted after "--" on the command line
const (
	RunSettingTestOutputXML       = "Husky.TestOutputXml"
	RunSettingDesignMode          = "Husky.DesignMode"
	RunSettingDiscoveryMethod     = "Husky.DiscoveryMethod"
	RunSettingUseNUnitFilter      = "Husky.UseNUnitFilter"
	RunSettingAssemblySelectLimit = "Husky.AssemblySelectLimit"
	RunSettingDumpExecution       = "Husky.DumpExecution"
	RunSettingNumberOfWorkers     = "Husky.NumberOfTestWorkers"
)

// ApplyRunSettings applies Key=Value pairs. Keys are matched case-insensitively.
func (c *Config) ApplyRunSettings(pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid run setting %q: expected Key=Value", pair)
		}
		if err := c.applyRunSetting(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("run setting %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) applyRunSetting(key, value string) error {
	switch {
	case strings.EqualFold(key, RunSettingTestOutputXML):
		if value == "" {
			return fmt.Errorf("empty path")
		}
		c.TestOutputXML = value
	case strings.EqualFold(key, RunSettingDesignMode):
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		c.Settings.DesignMode = b
	case strings.EqualFold(key, RunSettingDiscoveryMethod):
		m, ok := domain.ParseDiscoveryMethod(value)
		if !ok {
			return fmt.Errorf("unknown discovery method %q", value)
		}
		c.Settings.DiscoveryMethod = m
	case strings.EqualFold(key, RunSettingUseNUnitFilter):
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		c.Settings.UseNUnitFilter = b
	case strings.EqualFold(key, RunSettingAssemblySelectLimit):
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.Settings.AssemblySelectLimit = n
	case strings.EqualFold(key, RunSettingDumpExecution):
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		c.DumpExecution = b
	case strings.EqualFold(key, RunSettingNumberOfWorkers):
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if n > 0 {
			c.Processors = n
		}
	default:
		return fmt.Errorf("unknown key")
	}
	return nil
}
