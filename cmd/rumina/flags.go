package main

import (
	"fmt"
	"strings"

	"fortio.org/log"

	"rumina/interpreter-go/pkg/config"
	"rumina/interpreter-go/pkg/interpreter"
)

// globalFlags are the options accepted before the subcommand. Empty fields
// leave the configuration file value in place.
type globalFlags struct {
	execMode   string
	configPath string
	logLevel   string
}

var flagNames = []string{"--exec-mode", "--config", "--log-level"}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var flags globalFlags
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		name, value, matched, hasValue := matchFlag(arg)
		if !matched {
			remaining = append(remaining, arg)
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("%s expects a value", name)
			}
			value = args[i+1]
			i++
		}
		if strings.TrimSpace(value) == "" {
			return flags, nil, fmt.Errorf("%s expects a value", name)
		}
		switch name {
		case "--exec-mode":
			mode, err := interpreter.ParseExecMode(value)
			if err != nil {
				return flags, nil, fmt.Errorf("unknown --exec-mode value '%s' (expected treewalker or bytecode)", value)
			}
			flags.execMode = string(mode)
		case "--config":
			flags.configPath = value
		case "--log-level":
			flags.logLevel = value
		}
	}
	return flags, remaining, nil
}

func matchFlag(arg string) (name, value string, matched, hasValue bool) {
	for _, candidate := range flagNames {
		if arg == candidate {
			return candidate, "", true, false
		}
		if strings.HasPrefix(arg, candidate+"=") {
			return candidate, strings.TrimPrefix(arg, candidate+"="), true, true
		}
	}
	return "", "", false, false
}

// resolveConfig loads rumina.yml (the --config path, or the one in the
// working directory) and applies the flag overrides and the log level.
func resolveConfig(flags globalFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = config.FileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.configPath != "" && cfg.Path == "" {
		return nil, fmt.Errorf("config file %s not found", flags.configPath)
	}
	if flags.execMode != "" {
		cfg.ExecMode = flags.execMode
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := log.SetLogLevelStr(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if cfg.Path != "" {
		log.LogVf("config loaded from %s", cfg.Path)
	}
	return cfg, nil
}
