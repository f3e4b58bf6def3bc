// Package configs provides the embedded configuration template for rtxswitch.
//
// The template is embedded at build time so `rtxswitch config init` can write
// it from any distribution. Configuration precedence (see internal/config
// Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config (os.UserConfigDir()/rtxswitch/config.yaml)
//  3. Environment variables (RTXSWITCH_*)
package configs

import _ "embed"

// UserConfigTemplate is the commented template written by `rtxswitch config init`.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
