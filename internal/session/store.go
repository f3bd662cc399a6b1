// Package session provides the process-wide store of tool default values,
// scoped by named profiles.
//
// Tools may omit optional parameters (scheme, simulator, configuration, ...)
// that have been set as defaults; the typed-tool factory resolves them from
// the active profile before business logic runs.
package session

import (
	"sort"
	"sync"
)

// Defaults is a flat mapping of recognized default keys to scalar values.
type Defaults map[string]any

// KnownKeys lists the default keys the server recognizes. SetDefaults does
// not reject other keys; this list exists for documentation, env-var
// mapping, and host-facing tool descriptions.
var KnownKeys = []string{
	"scheme",
	"configuration",
	"simulatorId",
	"simulatorName",
	"deviceId",
	"projectPath",
	"workspacePath",
	"useLatestOS",
	"arch",
	"derivedDataPath",
	"preferXcodebuild",
	"platform",
	"bundleId",
	"suppressWarnings",
}

// Store holds the global (unnamed) profile plus zero or more named
// profiles, each with an independent Defaults map, and tracks which profile
// is active. Profiles never fall back to the global profile for unset keys;
// each map is strictly independent.
//
// A Store is safe for concurrent use; every method is atomic.
type Store struct {
	mu       sync.RWMutex
	global   Defaults
	profiles map[string]Defaults
	active   string // "" selects the global profile
}

// NewStore creates an empty store with the global profile active.
func NewStore() *Store {
	return &Store{
		global:   make(Defaults),
		profiles: make(map[string]Defaults),
	}
}

// activeMapLocked returns the map the active profile points at, creating the
// named profile's map on first touch. Caller must hold mu.
func (s *Store) activeMapLocked() Defaults {
	if s.active == "" {
		return s.global
	}
	m, ok := s.profiles[s.active]
	if !ok {
		m = make(Defaults)
		s.profiles[s.active] = m
	}
	return m
}

// SetDefaults merges partial into the active profile's map. Keys present in
// partial overwrite, keys absent are untouched. Nil values are ignored
// rather than clearing the key; there is no unset operation.
func (s *Store) SetDefaults(partial Defaults) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.activeMapLocked()
	for k, v := range partial {
		if v == nil {
			continue
		}
		m[k] = v
	}
}

// GetAll returns a snapshot of the active profile's current map. Mutating
// the snapshot does not affect the store.
func (s *Store) GetAll() Defaults {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var src Defaults
	if s.active == "" {
		src = s.global
	} else {
		src = s.profiles[s.active]
	}

	out := make(Defaults, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// SetActiveProfile switches which profile subsequent SetDefaults/GetAll
// operate on. The empty name selects the global profile. Switching never
// copies or merges data between profiles. Activating a name creates its
// (empty) profile if it does not exist yet.
func (s *Store) SetActiveProfile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = name
	if name != "" {
		if _, ok := s.profiles[name]; !ok {
			s.profiles[name] = make(Defaults)
		}
	}
}

// ActiveProfile returns the active profile name, or "" for global.
func (s *Store) ActiveProfile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// CreateProfile ensures a named profile exists without activating it.
func (s *Store) CreateProfile(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[name]; !ok {
		s.profiles[name] = make(Defaults)
	}
}

// HasProfile reports whether the named profile exists.
func (s *Store) HasProfile(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.profiles[name]
	return ok
}

// ListProfiles returns the sorted names of all profiles that have ever been
// activated or created, excluding the global profile.
func (s *Store) ListProfiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResetDefaults empties the active profile's map. The profile itself and
// the active-profile pointer are untouched.
func (s *Store) ResetDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		s.global = make(Defaults)
		return
	}
	s.profiles[s.active] = make(Defaults)
}

// Clear resets all profiles and the active-profile pointer. Used by test
// setup and teardown, never by production tool handlers.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = make(Defaults)
	s.profiles = make(map[string]Defaults)
	s.active = ""
}
