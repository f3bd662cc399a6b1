package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/config"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/session"
	"github.com/xcodebuildmcp/xcodebuildmcp/internal/tool"
)

// profileLabel names the active profile for user-facing output.
func profileLabel(name string) string {
	if name == "" {
		return "global"
	}
	return name
}

// defaultsDump renders the active profile's defaults as pretty-printed JSON.
func (s *Server) defaultsDump() string {
	defaults := s.store.GetAll()
	if len(defaults) == 0 {
		return "{}"
	}
	b, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return fmt.Sprintf("(unrenderable defaults: %v)", err)
	}
	return string(b)
}

// profileSummary is the uniform trailer of every session tool response:
// active profile label, known profiles, then the defaults dump.
func (s *Server) profileSummary(resp *tool.Response) *tool.Response {
	resp.AddText(fmt.Sprintf("Active profile: %s", profileLabel(s.store.ActiveProfile())))

	profiles := s.store.ListProfiles()
	if len(profiles) == 0 {
		resp.AddText("Known profiles: (none)")
	} else {
		resp.AddText("Known profiles: " + strings.Join(profiles, ", "))
	}

	resp.AddText("Current defaults:\n" + s.defaultsDump())
	return resp
}

func (s *Server) sessionSetDefaultsTool() *tool.Definition[map[string]any] {
	return &tool.Definition[map[string]any]{
		Name: "session_set_defaults",
		Description: "Set session default values for tool parameters on the active profile. Recognized keys: " +
			strings.Join(session.KnownKeys, ", ") + ". Keys you set are injected into later tool calls that omit them.",
		Logic: func(ctx context.Context, in map[string]any, exec executor.Executor) *tool.Response {
			known := make(map[string]bool, len(session.KnownKeys))
			for _, k := range session.KnownKeys {
				known[k] = true
			}

			partial := make(session.Defaults)
			var unknown []string
			for k, v := range in {
				if !known[k] {
					unknown = append(unknown, k)
					continue
				}
				partial[k] = v
			}

			if len(partial) == 0 {
				return tool.NewErrorResponse("❌ No recognized session default keys provided. Recognized keys: " +
					strings.Join(session.KnownKeys, ", "))
			}

			s.store.SetDefaults(partial)

			keys := make([]string, 0, len(partial))
			for k := range partial {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			resp := tool.NewTextResponse(fmt.Sprintf("✅ Session defaults updated: %s", strings.Join(keys, ", ")))
			if len(unknown) > 0 {
				sort.Strings(unknown)
				resp.AddText("Ignored unrecognized keys: " + strings.Join(unknown, ", "))
			}
			return s.profileSummary(resp)
		},
	}
}

func (s *Server) sessionGetDefaultsTool() *tool.Definition[struct{}] {
	return &tool.Definition[struct{}]{
		Name:        "session_get_defaults",
		Description: "Show the active session defaults profile and its values.",
		Logic: func(ctx context.Context, _ struct{}, exec executor.Executor) *tool.Response {
			return s.profileSummary(&tool.Response{})
		},
	}
}

func (s *Server) sessionClearDefaultsTool() *tool.Definition[struct{}] {
	return &tool.Definition[struct{}]{
		Name:        "session_clear_defaults",
		Description: "Clear all session default values on the active profile. The profile itself stays active.",
		Logic: func(ctx context.Context, _ struct{}, exec executor.Executor) *tool.Response {
			s.store.ResetDefaults()
			return s.profileSummary(tool.NewTextResponse("✅ Session defaults cleared."))
		},
	}
}

type useProfileInput struct {
	Profile string `json:"profile,omitempty"`
	Global  bool   `json:"global,omitempty"`
	Persist bool   `json:"persist,omitempty"`
	Create  bool   `json:"create,omitempty"`
}

func (s *Server) sessionUseDefaultsProfileTool() *tool.Definition[useProfileInput] {
	return &tool.Definition[useProfileInput]{
		Name:        "session_use_defaults_profile",
		Description: "Switch the active session defaults profile. Provide a profile name, or global=true for the unnamed global profile. create=true creates a missing profile; persist=true writes the choice to .xcodebuildmcp/config.yaml.",
		Logic: func(ctx context.Context, in useProfileInput, exec executor.Executor) *tool.Response {
			if in.Global && in.Profile != "" {
				return tool.NewErrorResponse("Provide either global=true or profile, not both.")
			}

			name := ""
			if !in.Global {
				name = strings.TrimSpace(in.Profile)
				if name == "" {
					return tool.NewErrorResponse("Profile name cannot be empty.")
				}
				if !s.store.HasProfile(name) && !in.Create {
					return tool.NewErrorResponsef("Profile %q does not exist.", name)
				}
			}

			created := name != "" && !s.store.HasProfile(name)
			s.store.SetActiveProfile(name)

			resp := &tool.Response{}
			s.profileSummary(resp)

			var notices []string
			if created {
				notices = append(notices, fmt.Sprintf("Created profile %q.", name))
			}
			if in.Persist {
				path := config.Path(s.workDir)
				if err := config.PersistActiveProfile(s.fs, path, name); err != nil {
					notices = append(notices, fmt.Sprintf("Failed to persist active profile: %v", err))
				} else {
					notices = append(notices, fmt.Sprintf("Persisted active profile to %s.", path))
				}
			}
			if len(notices) > 0 {
				resp.AddText("Notices:\n- " + strings.Join(notices, "\n- "))
			}
			return resp
		},
	}
}
