package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"husky/internal/domain"
)

// Load layers configuration: defaults, the project .env file, an optional
// husky.yaml, HUSKY_* environment variables, command-line flags and finally
// run settings passed after "--".
func Load(flags Flags) (*Config, error) {
	cfg := New()

	// .env might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(cfg.ProjectPath, ".env"))

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	path := flags.ConfigFile
	if path == "" {
		candidate := filepath.Join(cfg.ProjectPath, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := apply(v, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)

	if err := cfg.ApplyRunSettings(flags.RunSettings); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("project_path", cfg.ProjectPath)
	v.SetDefault("test_path", cfg.TestPath)
	v.SetDefault("output.json_file", cfg.OutputJSONFile)
	v.SetDefault("output.json_dir", cfg.OutputJSONDir)
	v.SetDefault("output.xml_dir", cfg.TestOutputXML)
	v.SetDefault("processors", cfg.Processors)
	v.SetDefault("test_command", cfg.TestCommand)
	v.SetDefault("log.file", cfg.LogFile)
	v.SetDefault("log.level", cfg.LogLevel)
	v.SetDefault("dump_execution", cfg.DumpExecution)
	v.SetDefault("metrics_file", cfg.MetricsFile)
	v.SetDefault("provision_db", cfg.ProvisionDB)
	v.SetDefault("paths_to_ignore", cfg.PathsToIgnore)
	v.SetDefault("settings.design_mode", cfg.Settings.DesignMode)
	v.SetDefault("settings.discovery_method", cfg.Settings.DiscoveryMethod.String())
	v.SetDefault("settings.use_nunit_filter", cfg.Settings.UseNUnitFilter)
	v.SetDefault("settings.assembly_select_limit", cfg.Settings.AssemblySelectLimit)
	v.SetDefault("settings.max_discovered_cases", cfg.Settings.MaxDiscoveredCases)
}

func apply(v *viper.Viper, cfg *Config) error {
	cfg.ProjectPath = v.GetString("project_path")
	cfg.TestPath = v.GetString("test_path")
	cfg.OutputJSONFile = v.GetString("output.json_file")
	cfg.OutputJSONDir = v.GetString("output.json_dir")
	cfg.TestOutputXML = v.GetString("output.xml_dir")
	cfg.Processors = v.GetInt("processors")
	cfg.TestCommand = v.GetString("test_command")
	cfg.LogFile = v.GetString("log.file")
	cfg.LogLevel = v.GetString("log.level")
	cfg.DumpExecution = v.GetBool("dump_execution")
	cfg.MetricsFile = v.GetString("metrics_file")
	cfg.ProvisionDB = v.GetBool("provision_db")
	cfg.PathsToIgnore = v.GetStringSlice("paths_to_ignore")

	cfg.Settings.DesignMode = v.GetBool("settings.design_mode")
	cfg.Settings.UseNUnitFilter = v.GetBool("settings.use_nunit_filter")
	cfg.Settings.AssemblySelectLimit = v.GetInt("settings.assembly_select_limit")
	cfg.Settings.MaxDiscoveredCases = v.GetInt("settings.max_discovered_cases")

	method, ok := domain.ParseDiscoveryMethod(v.GetString("settings.discovery_method"))
	if !ok {
		return fmt.Errorf("invalid discovery method %q", v.GetString("settings.discovery_method"))
	}
	cfg.Settings.DiscoveryMethod = method
	return nil
}

// ApplyFlags overrides configuration with explicitly set command-line flags
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.DesignMode {
		c.Settings.DesignMode = true
	}
	if flags.ProvisionDB {
		c.ProvisionDB = true
	}
	if flags.MetricsFile != "" {
		c.MetricsFile = flags.MetricsFile
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}
