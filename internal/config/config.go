// Package config handles the .xcodebuildmcp/config.yaml file: loading it at
// startup to seed session-default profiles, and writing the active profile
// name back without disturbing unrelated content.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/filesystem"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/session"
)

// Dir and File name the configuration location relative to the working
// directory.
const (
	Dir  = ".xcodebuildmcp"
	File = "config.yaml"

	// activeProfileKey is the YAML key holding the active profile name.
	activeProfileKey = "activeSessionDefaultsProfile"

	// envPrefix namespaces environment overrides.
	envPrefix = "XCODEBUILDMCP_"
)

// Config is the parsed .xcodebuildmcp/config.yaml.
type Config struct {
	// ActiveSessionDefaultsProfile names the profile to activate at startup.
	// Empty selects the global profile.
	ActiveSessionDefaultsProfile string `koanf:"activeSessionDefaultsProfile"`

	// SessionDefaults seeds the global profile.
	SessionDefaults map[string]any `koanf:"sessionDefaults"`

	// Profiles seeds named profiles.
	Profiles map[string]map[string]any `koanf:"profiles"`
}

// Path returns the config file path under workDir.
func Path(workDir string) string {
	return filepath.Join(workDir, Dir, File)
}

// Load reads the config file (when present) layered with XCODEBUILDMCP_*
// environment overrides. A missing file yields an empty config, not an
// error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyToPath), nil); err != nil {
		return nil, fmt.Errorf("failed to load env overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// envKeyToPath maps an environment variable name to a koanf key path.
//
//	XCODEBUILDMCP_ACTIVE_PROFILE           -> activeSessionDefaultsProfile
//	XCODEBUILDMCP_SESSIONDEFAULTS_SCHEME   -> sessionDefaults.scheme
//	XCODEBUILDMCP_SESSIONDEFAULTS_SIMULATOR_NAME -> sessionDefaults.simulatorName
func envKeyToPath(s string) string {
	s = strings.TrimPrefix(s, envPrefix)

	if s == "ACTIVE_PROFILE" {
		return activeProfileKey
	}

	const defaultsPrefix = "SESSIONDEFAULTS_"
	if strings.HasPrefix(s, defaultsPrefix) {
		key := canonicalDefaultKey(strings.TrimPrefix(s, defaultsPrefix))
		return "sessionDefaults." + key
	}

	return strings.ToLower(s)
}

// canonicalDefaultKey maps an upper-snake env suffix to the camelCase
// session-default key, falling back to plain lowercase for unknown keys.
func canonicalDefaultKey(envSuffix string) string {
	flat := strings.ToLower(strings.ReplaceAll(envSuffix, "_", ""))
	for _, known := range session.KnownKeys {
		if flat == strings.ToLower(known) {
			return known
		}
	}
	return strings.ToLower(envSuffix)
}

// Seed applies the config to a session store: global defaults, named
// profiles, then the active profile pointer. Activating a profile named in
// the config always succeeds, creating it if the config did not define it.
func (c *Config) Seed(store *session.Store) {
	if len(c.SessionDefaults) > 0 {
		store.SetActiveProfile("")
		store.SetDefaults(session.Defaults(c.SessionDefaults))
	}
	for name, defaults := range c.Profiles {
		if name == "" {
			continue
		}
		store.SetActiveProfile(name)
		store.SetDefaults(session.Defaults(defaults))
	}
	store.SetActiveProfile(c.ActiveSessionDefaultsProfile)
}

// PersistActiveProfile writes name into the config file's
// activeSessionDefaultsProfile key, preserving all other YAML content
// (including comments) through a node-level read-modify-write. An empty
// name removes the key, which selects the global profile on next startup.
func PersistActiveProfile(fs filesystem.FileSystem, path, name string) error {
	var doc yaml.Node

	if fs.Exists(path) {
		data, err := fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config file root is not a mapping")
	}

	keyIdx := -1
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == activeProfileKey {
			keyIdx = i
			break
		}
	}

	switch {
	case name == "" && keyIdx >= 0:
		root.Content = append(root.Content[:keyIdx], root.Content[keyIdx+2:]...)
	case name != "" && keyIdx >= 0:
		root.Content[keyIdx+1] = scalarNode(name)
	case name != "":
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: activeProfileKey},
			scalarNode(name))
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config file: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := fs.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}
