// Package config provides board preset management for the minesweeper server.
//
// The config package handles:
//   - Loading presets from JSON or YAML files
//   - Preset validation via engine.ValidateGameConfig
//   - Built-in presets (beginner, intermediate, expert)
//   - Preset discovery, listing and saving
//
// Configuration Format:
//
// Presets are stored as <id>.json, <id>.yaml or <id>.yml in the config
// directory. Each preset defines:
//   - Board size and mine count
//   - First-click safety, auto open and flag protection
//   - An optional fixed seed or a fixed layout of '*' (mine) and '.' (safe)
//
// A file whose ID matches a built-in preset replaces it.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("expert")
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
package config
