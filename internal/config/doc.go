// Package config loads inkstone settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults (Default)
//  2. a TOML or YAML file, chosen by extension
//  3. INKSTONE_* environment variables
//
// Environment variables map onto dotted paths: INKSTONE_LOG_LEVEL sets
// logging.level and INKSTONE_EDITOR_MAX_LEVEL sets editor.maxLevel.
package config
