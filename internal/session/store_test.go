package session

import (
	"reflect"
	"testing"
)

func TestStore_SetDefaultsMergeSemantics(t *testing.T) {
	s := NewStore()

	s.SetDefaults(Defaults{"scheme": "A", "configuration": "Debug"})
	s.SetDefaults(Defaults{"scheme": "B"})

	got := s.GetAll()
	if got["scheme"] != "B" {
		t.Errorf("scheme = %v, want overwrite to B", got["scheme"])
	}
	if got["configuration"] != "Debug" {
		t.Errorf("configuration = %v, want untouched Debug", got["configuration"])
	}

	// Nil values are merge-ignored, not unset.
	s.SetDefaults(Defaults{"scheme": nil})
	if got := s.GetAll(); got["scheme"] != "B" {
		t.Errorf("scheme = %v after nil merge, want B", got["scheme"])
	}
}

func TestStore_GetAllIsIdempotentSnapshot(t *testing.T) {
	s := NewStore()
	s.SetDefaults(Defaults{"scheme": "A"})

	first := s.GetAll()
	second := s.GetAll()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("consecutive GetAll snapshots differ: %v vs %v", first, second)
	}

	// Mutating a snapshot must not leak into the store.
	first["scheme"] = "tampered"
	if got := s.GetAll(); got["scheme"] != "A" {
		t.Errorf("scheme = %v after snapshot mutation, want A", got["scheme"])
	}
}

func TestStore_ProfileIsolation(t *testing.T) {
	s := NewStore()

	s.SetActiveProfile("ios")
	s.SetDefaults(Defaults{"scheme": "A"})

	s.SetActiveProfile("watch")
	if got := s.GetAll(); len(got) != 0 {
		t.Errorf("watch profile = %v, want empty (no fallback)", got)
	}

	s.SetActiveProfile("")
	if got := s.GetAll(); len(got) != 0 {
		t.Errorf("global profile = %v, want empty", got)
	}

	s.SetActiveProfile("ios")
	if got := s.GetAll(); got["scheme"] != "A" {
		t.Errorf("ios profile scheme = %v, want A preserved across switches", got["scheme"])
	}
}

func TestStore_ListProfilesExcludesGlobal(t *testing.T) {
	s := NewStore()

	if got := s.ListProfiles(); len(got) != 0 {
		t.Fatalf("ListProfiles() = %v, want empty", got)
	}

	s.SetActiveProfile("watch")
	s.CreateProfile("ios")
	s.SetActiveProfile("")

	want := []string{"ios", "watch"}
	if got := s.ListProfiles(); !reflect.DeepEqual(got, want) {
		t.Errorf("ListProfiles() = %v, want %v", got, want)
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.SetActiveProfile("ios")
	s.SetDefaults(Defaults{"scheme": "A"})

	s.Clear()

	if s.ActiveProfile() != "" {
		t.Errorf("ActiveProfile() = %q after Clear, want global", s.ActiveProfile())
	}
	if got := s.ListProfiles(); len(got) != 0 {
		t.Errorf("ListProfiles() = %v after Clear, want empty", got)
	}
	if got := s.GetAll(); len(got) != 0 {
		t.Errorf("GetAll() = %v after Clear, want empty", got)
	}
}

func TestStore_ResetDefaultsOnlyActiveProfile(t *testing.T) {
	s := NewStore()
	s.SetDefaults(Defaults{"scheme": "Global"})
	s.SetActiveProfile("ios")
	s.SetDefaults(Defaults{"scheme": "A", "configuration": "Release"})

	s.ResetDefaults()

	if got := s.GetAll(); len(got) != 0 {
		t.Errorf("GetAll() = %v after ResetDefaults, want empty", got)
	}
	if s.ActiveProfile() != "ios" {
		t.Errorf("ActiveProfile() = %q, want ios", s.ActiveProfile())
	}

	s.SetActiveProfile("")
	if got := s.GetAll()["scheme"]; got != "Global" {
		t.Errorf("global scheme = %v, want Global", got)
	}
}
