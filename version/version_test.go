package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() {
		Version, GitCommit, BuildTime = v, c, b
	}
}

func TestGet(t *testing.T) {
	defer saveAndRestore()()

	tests := []struct {
		version string
		release bool
	}{
		{"dev", false},
		{"1.0.0", true},
		{"1.0.0-dirty", false},
	}
	for _, tc := range tests {
		Version = tc.version
		info := Get()
		if info.Version != tc.version {
			t.Errorf("Version = %q, want %q", info.Version, tc.version)
		}
		if info.IsRelease != tc.release {
			t.Errorf("%s: IsRelease = %v, want %v", tc.version, info.IsRelease, tc.release)
		}
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, BuildTime = "1.2.0", "abcdef123456", "2026-01-15T10:30:00Z"

	info := Get()
	if info.GitCommit != "abcdef1" {
		t.Errorf("GitCommit = %q, want short hash", info.GitCommit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
}

func TestShortAndUserAgent(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit = "1.0.0", "abc1234"

	if sv := Short(); !strings.HasPrefix(sv, "1.0.0-abc1234") {
		t.Errorf("Short() = %q", sv)
	}
	if ua := UserAgent("focusgroup"); !strings.HasPrefix(ua, "focusgroup/1.0.0-abc1234") {
		t.Errorf("UserAgent() = %q", ua)
	}
}
