package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/minesweeper/game/engine"
	"github.com/wricardo/minesweeper/game/service"
	"github.com/wricardo/minesweeper/logging"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigID is the preset used when a session names none
const DefaultConfigID = "beginner"

// Supported preset file extensions, in lookup order
var extensions = []string{".json", ".yaml", ".yml"}

// Manager handles game configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	builtins      map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. A missing directory is
// allowed: only the built-in presets are served until a config is saved.
func NewManager(configDir string) (*Manager, error) {
	info, err := os.Stat(configDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config directory: %w", err)
	}
	if err == nil && !info.IsDir() {
		return nil, fmt.Errorf("config path is not a directory: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
		builtins:  engine.DefaultConfigs(),
	}

	// Load default config
	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a configuration by ID. Files in the config directory take
// precedence over built-in presets of the same ID.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id, err := configID(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	config, err := m.readConfigFile(id)
	if errors.Is(err, ErrConfigNotFound) {
		builtin, ok := m.builtins[id]
		if !ok {
			return nil, ErrConfigNotFound
		}
		config = builtin
	} else if err != nil {
		return nil, err
	}

	// Cache the config
	m.configs[id] = config
	return config, nil
}

// readConfigFile reads the first preset file found for id. Callers hold m.mu.
func (m *Manager) readConfigFile(id string) (*engine.GameConfig, error) {
	for _, ext := range extensions {
		configPath := filepath.Join(m.configDir, id+ext)

		data, err := os.ReadFile(configPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		config, err := decodeConfig(data, ext)
		if err != nil {
			return nil, err
		}
		return config, nil
	}
	return nil, ErrConfigNotFound
}

func decodeConfig(data []byte, ext string) (*engine.GameConfig, error) {
	// Parse config
	var config engine.GameConfig
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrInvalidConfig, err)
		}
	}

	// Validate config
	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// ListConfigs returns information about all available configurations, sorted by ID
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	seen := make(map[string]bool)
	var configs []*service.ConfigInfo

	entries, err := os.ReadDir(m.configDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || !isConfigExt(ext) {
			continue
		}

		// Remove extension for config ID
		id := strings.TrimSuffix(entry.Name(), ext)
		if seen[id] {
			continue
		}

		// Try to load the config to get details
		config, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid configs
			logging.WithComponent("config").WithError(err).Warnf("Skipping config %s", entry.Name())
			continue
		}

		seen[id] = true
		configs = append(configs, newConfigInfo(id, entry.Name(), "file", config))
	}

	for id, config := range m.builtins {
		if seen[id] {
			continue
		}
		configs = append(configs, newConfigInfo(id, "", "builtin", config))
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})

	return configs, nil
}

func newConfigInfo(id, filename, source string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:       filename,
		ConfigID:       id, // This is the identifier to use for session creation
		Name:           config.Name,
		Description:    config.Description,
		Size:           config.Size,
		MineCount:      config.MineCount,
		FirstClickSafe: config.FirstClickSafe,
		FixedLayout:    len(config.Layout) > 0,
		Source:         source,
	}
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops all cached configurations so they are re-read from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	// Clear cache
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	// Reload default config
	return m.loadDefaultConfig()
}

// loadDefaultConfig loads the default configuration
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultConfigID)
	if err != nil {
		// An invalid beginner file on disk falls back to the built-in preset
		logging.WithComponent("config").WithError(err).Warn("Using built-in default config")
		config = m.builtins[DefaultConfigID]
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig saves a configuration to disk. A .yaml or .yml suffix on name
// selects YAML; anything else is written as JSON.
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	// Validate config before saving
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	id, err := configID(name)
	if err != nil {
		return err
	}

	ext := filepath.Ext(name)
	if !isConfigExt(ext) {
		ext = ".json"
	}

	var data []byte
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		// Marshal config to JSON with indentation
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to file
	configPath := filepath.Join(m.configDir, id+ext)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	return nil
}

// configID strips a known extension and rejects names that would escape the config directory
func configID(name string) (string, error) {
	id := name
	if ext := filepath.Ext(name); isConfigExt(ext) {
		id = strings.TrimSuffix(name, ext)
	}
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}
	return id, nil
}

func isConfigExt(ext string) bool {
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
