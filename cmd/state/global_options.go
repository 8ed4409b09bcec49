package state

import (
	"path/filepath"
	"strconv"
)

const defaultConfigFileName = "config.json"

// GlobalOptions contains global config values that apply for all srcmapaudit
// sub-commands.
type GlobalOptions struct {
	ConfigFilePath string
	NoColor        bool
	LogOutput      string
	LogFormat      string
	Verbose        bool
}

// GetDefaultFlags returns the default global flags.
func GetDefaultFlags(homeDir string) GlobalOptions {
	return GlobalOptions{
		ConfigFilePath: filepath.Join(homeDir, "srcmapaudit", defaultConfigFileName),
		LogOutput:      "stderr",
	}
}

func getFlags(defaultFlags GlobalOptions, env map[string]string) GlobalOptions {
	result := defaultFlags

	if val, ok := env["SRCMAPAUDIT_CONFIG"]; ok {
		result.ConfigFilePath = val
	}
	if val, ok := env["SRCMAPAUDIT_LOG_OUTPUT"]; ok {
		result.LogOutput = val
	}
	if val, ok := env["SRCMAPAUDIT_LOG_FORMAT"]; ok {
		result.LogFormat = val
	}
	if val, ok := env["SRCMAPAUDIT_VERBOSE"]; ok {
		if v, err := strconv.ParseBool(val); err == nil {
			result.Verbose = v
		}
	}
	if env["SRCMAPAUDIT_NO_COLOR"] != "" {
		result.NoColor = true
	}
	// Support https://no-color.org/, even an empty value should disable the
	// color output.
	if _, ok := env["NO_COLOR"]; ok {
		result.NoColor = true
	}
	return result
}
