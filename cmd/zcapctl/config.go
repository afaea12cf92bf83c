package main

import (
	"time"

	"github.com/spf13/pflag"
	"go.bryk.io/zcap/cli/konf"
	"go.bryk.io/zcap/errors"
)

// engineConf is the shape of the "zcap" section a zcapctl.yaml config file
// may supply, sourced through the teacher's konf wrapper: defaults -> file
// -> ENV -> flags, same precedence order cli/konf documents. ZCAPCTL_ env
// vars and flags are layered only when a config file is given.
type engineConf struct {
	MaxChainDepth int           `yaml:"max_chain_depth"`
	ClockSkew     time.Duration `yaml:"clock_skew"`
}

// loadEngineConf resolves the effective engine configuration for a command,
// starting from the given defaults and letting an optional config file and
// the command's own already-parsed flags override them in turn. Without a
// config file the defaults are returned unchanged.
func loadEngineConf(configFile string, flags *pflag.FlagSet, defaults engineConf) (engineConf, error) {
	conf := defaults
	if configFile == "" {
		return conf, nil
	}
	opts := []konf.Option{
		konf.WithFileLocations([]string{configFile}),
		konf.WithEnv("zcapctl"),
		konf.WithPflags(flags),
	}
	k, err := konf.Setup(opts...)
	if err != nil {
		return conf, errors.Wrap(err, "failed to load configuration file")
	}
	if err := k.Unmarshal("zcap", &conf); err != nil {
		return conf, errors.Wrap(err, "failed to apply configuration file")
	}
	return conf, nil
}
