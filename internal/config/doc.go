// Package config provides configuration management for netease-downloader.
//
// This package handles:
//   - Default configuration values
//   - Loading and saving settings from JSON files
//   - Overrides from NETEASE_DL_* environment variables
//   - Validation
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Saves into ./downloads
//	// 3 attempts per track, 2 seconds apart
//	// 1 second pause between batch items
//
// # Precedence
//
// Later sources win: defaults, config file, environment, command-line flags.
//
//	settings, err := config.Load("netease-dl.json")
//	if err != nil {
//	    return err
//	}
//	if err := settings.ApplyEnv(); err != nil {
//	    return err
//	}
//
// Durations are stored as seconds (float) so the JSON file stays readable;
// use the *Duration accessors to get time.Duration values.
//
// The Settings value is passed to every constructor. Nothing in the program
// reads configuration from package-level state.
package config
