package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Plugin errors.
var (
	ErrPluginNotFound     = errors.New("plugin not found")
	ErrActionNotSupported = errors.New("action not supported")
	ErrPluginFailed       = errors.New("plugin reported failure")
	ErrBindingNotFound    = errors.New("binding not found")
)

// Manager manages plugin discovery and access.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	mu        sync.RWMutex
}

// NewManager creates a new plugin Manager with the given plugin directory.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover scans the plugin directory and loads every subdirectory that has a
// valid manifest. A missing plugin directory is not an error.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = make(map[string]*Plugin)

	entries, err := os.ReadDir(m.pluginDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginPath := filepath.Join(m.pluginDir, entry.Name())
		manifestData, err := os.ReadFile(filepath.Join(pluginPath, ManifestFile))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			log.Warn().Err(err).Str("dir", pluginPath).Msg("skipping unreadable plugin")
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			log.Warn().Err(err).Str("dir", pluginPath).Msg("skipping plugin with invalid manifest")
			continue
		}
		if manifest.Name == "" || manifest.Executable == "" {
			log.Warn().Str("dir", pluginPath).Msg("skipping plugin without name or executable")
			continue
		}

		m.plugins[manifest.Name] = &Plugin{
			Manifest:   manifest,
			Path:       pluginPath,
			Executable: filepath.Join(pluginPath, manifest.Executable),
		}
	}

	log.Info().Int("count", len(m.plugins)).Str("dir", m.pluginDir).Msg("plugins discovered")
	return nil
}

// Get returns a plugin by name.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPluginNotFound, name)
	}
	return plugin, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		plugins = append(plugins, plugin)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})
	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}

// Runner resolves plugins by name and executes them.
type Runner struct {
	plugins  *Manager
	executor *Executor
}

// NewRunner combines a manager and an executor.
func NewRunner(plugins *Manager, executor *Executor) *Runner {
	return &Runner{plugins: plugins, executor: executor}
}

// Run executes req.Action on the named plugin. A response with Success false
// is returned together with ErrPluginFailed.
func (r *Runner) Run(ctx context.Context, name string, req *Request) (*Response, error) {
	p, err := r.plugins.Get(name)
	if err != nil {
		return nil, err
	}
	if !p.Manifest.Supports(req.Action) {
		return nil, fmt.Errorf("%w: %s/%s", ErrActionNotSupported, name, req.Action)
	}

	resp, err := r.executor.Execute(ctx, p, req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return resp, fmt.Errorf("%w: %s: %s", ErrPluginFailed, name, resp.Error)
	}
	return resp, nil
}
