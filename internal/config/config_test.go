package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/filesystem"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/session"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, Dir, File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_FileAndSeed(t *testing.T) {
	path := writeConfig(t, `
activeSessionDefaultsProfile: ios
sessionDefaults:
  scheme: GlobalScheme
  configuration: Debug
profiles:
  ios:
    scheme: IOSScheme
    simulatorName: iPhone 16
  watch:
    scheme: WatchScheme
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ActiveSessionDefaultsProfile != "ios" {
		t.Errorf("ActiveSessionDefaultsProfile = %q, want ios", cfg.ActiveSessionDefaultsProfile)
	}

	store := session.NewStore()
	cfg.Seed(store)

	if store.ActiveProfile() != "ios" {
		t.Errorf("ActiveProfile() = %q, want ios", store.ActiveProfile())
	}
	if got := store.GetAll(); got["scheme"] != "IOSScheme" || got["simulatorName"] != "iPhone 16" {
		t.Errorf("ios defaults = %v, want seeded values", got)
	}

	store.SetActiveProfile("")
	if got := store.GetAll(); got["scheme"] != "GlobalScheme" {
		t.Errorf("global defaults = %v, want seeded global scheme", got)
	}

	profiles := store.ListProfiles()
	if len(profiles) != 2 || profiles[0] != "ios" || profiles[1] != "watch" {
		t.Errorf("ListProfiles() = %v, want [ios watch]", profiles)
	}
}

func TestLoad_MissingFileIsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), Dir, File))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ActiveSessionDefaultsProfile != "" || len(cfg.SessionDefaults) != 0 || len(cfg.Profiles) != 0 {
		t.Errorf("cfg = %+v, want empty", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "sessionDefaults:\n  scheme: FromFile\n")

	t.Setenv("XCODEBUILDMCP_ACTIVE_PROFILE", "ci")
	t.Setenv("XCODEBUILDMCP_SESSIONDEFAULTS_SCHEME", "FromEnv")
	t.Setenv("XCODEBUILDMCP_SESSIONDEFAULTS_SIMULATOR_NAME", "iPhone 16 Pro")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ActiveSessionDefaultsProfile != "ci" {
		t.Errorf("ActiveSessionDefaultsProfile = %q, want env ci", cfg.ActiveSessionDefaultsProfile)
	}
	if cfg.SessionDefaults["scheme"] != "FromEnv" {
		t.Errorf("scheme = %v, want env value to win over file", cfg.SessionDefaults["scheme"])
	}
	if cfg.SessionDefaults["simulatorName"] != "iPhone 16 Pro" {
		t.Errorf("simulatorName = %v, want camelCase env mapping", cfg.SessionDefaults["simulatorName"])
	}
}

func TestPersistActiveProfile_PreservesUnrelatedContent(t *testing.T) {
	fs := filesystem.NewMemFileSystem()
	path := "/work/.xcodebuildmcp/config.yaml"
	fs.Seed(path, `# keep this comment
activeSessionDefaultsProfile: old
sessionDefaults:
  scheme: S
profiles:
  ios:
    scheme: A
`)

	if err := PersistActiveProfile(fs, path, "ios"); err != nil {
		t.Fatalf("PersistActiveProfile() error = %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "activeSessionDefaultsProfile: ios") {
		t.Errorf("content missing updated key:\n%s", content)
	}
	if !strings.Contains(content, "# keep this comment") {
		t.Errorf("content lost comment:\n%s", content)
	}
	if !strings.Contains(content, "scheme: S") || !strings.Contains(content, "scheme: A") {
		t.Errorf("content lost unrelated keys:\n%s", content)
	}
}

func TestPersistActiveProfile_GlobalRemovesKey(t *testing.T) {
	fs := filesystem.NewMemFileSystem()
	path := "/work/.xcodebuildmcp/config.yaml"
	fs.Seed(path, "activeSessionDefaultsProfile: ios\nsessionDefaults:\n  scheme: S\n")

	if err := PersistActiveProfile(fs, path, ""); err != nil {
		t.Fatalf("PersistActiveProfile() error = %v", err)
	}

	data, _ := fs.ReadFile(path)
	if strings.Contains(string(data), "activeSessionDefaultsProfile") {
		t.Errorf("key not removed for global:\n%s", data)
	}
	if !strings.Contains(string(data), "scheme: S") {
		t.Errorf("unrelated content lost:\n%s", data)
	}
}

func TestPersistActiveProfile_CreatesMissingFile(t *testing.T) {
	fs := filesystem.NewMemFileSystem()
	path := "/work/.xcodebuildmcp/config.yaml"

	if err := PersistActiveProfile(fs, path, "ios"); err != nil {
		t.Fatalf("PersistActiveProfile() error = %v", err)
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "activeSessionDefaultsProfile: ios") {
		t.Errorf("new file content = %q", data)
	}
}
