package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flag.String("log-file", "", "Also write logs to this file")
	flagProbeStep  = flag.Float64("probe-step", 0, "Slope probe distance in world units")
	flagMaxSamples = flag.Int("max-samples", 0, "Maximum elevation grid samples")
	flagMaxBytes   = flag.Int64("max-file-bytes", 0, "Maximum world file size in bytes")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagProbeStep > 0 {
		cfg.Query.ProbeStep = *flagProbeStep
	}
	if *flagMaxSamples > 0 {
		cfg.Limits.MaxSamples = *flagMaxSamples
	}
	if *flagMaxBytes > 0 {
		cfg.Limits.MaxFileBytes = *flagMaxBytes
	}
}
