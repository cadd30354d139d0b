package cli

import "husky/internal/config"

// Flags holds command-line flags
type Flags struct {
	Processors  int
	Filter      string
	NameFilter  string
	TestCases   bool
	DesignMode  bool
	FailFast    bool
	ByFile      bool
	ProvisionDB bool
	MetricsFile string
	ConfigFile  string
	LogLevel    string
}

// ToConfigFlags converts CLI flags to config flags. Positional arguments
// before "--" select the test path; everything after it is run settings.
func (f *Flags) ToConfigFlags(args []string, argsLenAtDash int) config.Flags {
	positional, settings := SplitArgs(args, argsLenAtDash)

	cf := config.Flags{
		Processors:  f.Processors,
		Filter:      f.Filter,
		NameFilter:  f.NameFilter,
		TestCases:   f.TestCases,
		DesignMode:  f.DesignMode,
		FailFast:    f.FailFast,
		ByFile:      f.ByFile,
		ProvisionDB: f.ProvisionDB,
		MetricsFile: f.MetricsFile,
		ConfigFile:  f.ConfigFile,
		LogLevel:    f.LogLevel,
		RunSettings: settings,
	}
	if len(positional) > 0 {
		cf.TestPath = positional[0]
	}
	return cf
}

// SplitArgs separates positional arguments from run settings given after
// "--". argsLenAtDash is cobra's ArgsLenAtDash, -1 when there was no dash.
func SplitArgs(args []string, argsLenAtDash int) (positional, settings []string) {
	if argsLenAtDash < 0 || argsLenAtDash > len(args) {
		return args, nil
	}
	return args[:argsLenAtDash], args[argsLenAtDash:]
}
