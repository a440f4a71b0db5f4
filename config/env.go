package config

import (
	"github.com/xyproto/env/v2"
)

// Environment variables overriding project settings.
const (
	EnvLogLevel  = "GARNET_LOGLEVEL"
	EnvVarPrefix = "GARNET_VAR_PREFIX"
	EnvOutput    = "GARNET_OUTPUT"
)

// ApplyEnv overrides the settings of p with those given in the environment.
// Unset variables leave their settings alone.
func (p *Project) ApplyEnv() {
	p.LogLevel = env.Str(EnvLogLevel, p.LogLevel)
	p.VarPrefix = env.Str(EnvVarPrefix, p.VarPrefix)
	p.Output = env.Str(EnvOutput, p.Output)
}
