package xcodebuild

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xcodebuildmcp/xcodebuildmcp/internal/executor"
)

func TestExtractAppPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name:   "both keys present",
			output: "BUILT_PRODUCTS_DIR = /a/b\nFULL_PRODUCT_NAME = X.app",
			want:   "/a/b/X.app",
		},
		{
			name:   "indented build settings output",
			output: "Build settings for action build and target X:\n    BUILT_PRODUCTS_DIR = /DerivedData/Build/Products/Debug-iphonesimulator\n    FULL_PRODUCT_NAME = MyApp.app\n    OTHER = y",
			want:   "/DerivedData/Build/Products/Debug-iphonesimulator/MyApp.app",
		},
		{
			name:    "missing product name",
			output:  "BUILT_PRODUCTS_DIR = /a/b\n",
			wantErr: true,
		},
		{
			name:    "missing products dir",
			output:  "FULL_PRODUCT_NAME = X.app\n",
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: true,
		},
		{
			name:    "key mentioned mid-line does not match",
			output:  "note: BUILT_PRODUCTS_DIR = /a/b and FULL_PRODUCT_NAME = X.app",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAppPath(tt.output)
			if tt.wantErr {
				if !errors.Is(err, ErrAppPathNotFound) {
					t.Fatalf("error = %v, want ErrAppPathNotFound", err)
				}
				if got != "" {
					t.Errorf("path = %q, want empty on failure (no partial path)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractAppPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveAppPath(t *testing.T) {
	mock := &executor.MockExecutor{}
	mock.AddPattern("-showBuildSettings", &executor.CommandResult{
		Success: true,
		Output:  "BUILT_PRODUCTS_DIR = /dd/Debug\nFULL_PRODUCT_NAME = App.app",
	}, nil)

	path, err := ResolveAppPath(context.Background(),
		BuildParams{ProjectPath: "/p.xcodeproj", Scheme: "S", Configuration: "Debug"},
		CommandContext{Platform: PlatformMacOS, LogPrefix: "macOS"},
		mock)
	if err != nil {
		t.Fatalf("ResolveAppPath() error = %v", err)
	}
	if path != "/dd/Debug/App.app" {
		t.Errorf("path = %q, want /dd/Debug/App.app", path)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("executed %d commands, want 1", len(calls))
	}
	joined := strings.Join(calls[0].Command, " ")
	if !strings.HasPrefix(joined, "xcodebuild -showBuildSettings") {
		t.Errorf("command = %q, want xcodebuild -showBuildSettings invocation", joined)
	}
}

func TestResolveAppPath_CommandFailure(t *testing.T) {
	mock := executor.NewMockExecutor(&executor.CommandResult{Success: false, Error: "no scheme"})

	_, err := ResolveAppPath(context.Background(),
		BuildParams{ProjectPath: "/p.xcodeproj", Scheme: "S"},
		CommandContext{Platform: PlatformMacOS}, mock)
	if err == nil {
		t.Fatalf("ResolveAppPath() error = nil, want failure")
	}
	if !strings.Contains(err.Error(), "no scheme") {
		t.Errorf("error = %v, want captured stderr in message", err)
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{in: "iOS Simulator", want: PlatformIOSSimulator},
		{in: "ios simulator", want: PlatformIOSSimulator},
		{in: "iOSSimulator", want: PlatformIOSSimulator},
		{in: "macOS", want: PlatformMacOS},
		{in: "visionOS", want: PlatformVisionOS},
		{in: "solaris", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlatform(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePlatform(%q) error = nil, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlatform(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePlatform(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
