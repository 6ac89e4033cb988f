package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/dragons-dungeon/game/engine"
	"github.com/wricardo/dragons-dungeon/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = engine.ErrInvalidConfig
)

// extensions are tried in this order when a name has none
var extensions = []string{".json", ".yaml", ".yml"}

// Manager handles game configuration loading and caching.
// Files in the config directory take precedence over the built-in presets.
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. An empty configDir serves
// the built-in presets only.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" || !validName(name) {
		return nil, ErrConfigNotFound
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}

	m.configs[name] = config
	return config, nil
}

// readConfig resolves name to a file, falling back to the presets
func (m *Manager) readConfig(name string) (*engine.GameConfig, error) {
	if path := m.findFile(name); path != "" {
		config, err := engine.LoadGameConfig(path)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", name, err)
		}
		return config, nil
	}

	if preset, ok := engine.Presets()[strings.ToLower(name)]; ok {
		return preset, nil
	}
	return nil, ErrConfigNotFound
}

func (m *Manager) findFile(name string) string {
	if m.configDir == "" {
		return ""
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range extensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, c := range candidates {
		path := filepath.Join(m.configDir, c)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	seen := make(map[string]bool)
	var configs []*service.ConfigInfo

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}

		for _, entry := range entries {
			ext := filepath.Ext(entry.Name())
			if entry.IsDir() || !isConfigExt(ext) {
				continue
			}

			id := strings.TrimSuffix(entry.Name(), ext)
			if seen[id] {
				continue
			}

			// Try to load the config to get details
			config, err := m.LoadConfig(id)
			if err != nil {
				// Skip invalid configs
				continue
			}

			seen[id] = true
			configs = append(configs, newConfigInfo(entry.Name(), id, config, false))
		}
	}

	for id, preset := range engine.Presets() {
		if seen[id] {
			continue
		}
		configs = append(configs, newConfigInfo("", id, preset, true))
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

func newConfigInfo(filename, id string, config *engine.GameConfig, builtIn bool) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:      filename,
		ConfigID:      id,
		Name:          config.Name,
		Description:   config.Description,
		Width:         config.Width,
		Height:        config.Height,
		DragonCount:   config.DragonCount,
		SmellRadius:   config.SmellRadius,
		InitialHealth: config.InitialHealth,
		BuiltIn:       builtIn,
	}
}

func isConfigExt(ext string) bool {
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
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

// RefreshCache drops all cached configurations so they are reread from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig loads the normal difficulty, preferring a file override
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(engine.PresetNormal)
	if err != nil {
		// A broken override must not take the built-in default down with it
		config = engine.DefaultGameConfig()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig validates config and writes it to disk. The file format follows
// the extension of name and defaults to JSON.
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if !validName(name) {
		return fmt.Errorf("%w: config name %q must be a plain file name", ErrInvalidConfig, name)
	}
	if m.configDir == "" {
		return fmt.Errorf("no config directory to save %s into", name)
	}

	if config != nil {
		engine.ApplyDefaults(config)
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}

	filename := name
	ext := filepath.Ext(name)
	if !isConfigExt(ext) {
		ext = ".json"
		filename = name + ext
	}
	id := strings.TrimSuffix(filename, ext)

	data, err := engine.EncodeGameConfig(config, ext)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, filename)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	return nil
}

// validName reports whether name stays inside the config directory
func validName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return false
	}
	return !filepath.IsAbs(name) && filepath.VolumeName(name) == ""
}

// ReloadConfig drops name from the cache and reads it again
func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	delete(m.configs, name)
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

// Count returns the number of cached configurations
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
