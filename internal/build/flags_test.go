package build

import (
	"os"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	origName, origTime, origCommit, origVersion := buildName, buildTime, buildCommit, buildVersion
	origInfo := info

	code := m.Run()

	buildName, buildTime, buildCommit, buildVersion = origName, origTime, origCommit, origVersion
	info = origInfo
	os.Exit(code)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		vars       [4]string
		wantErrMsg []string
	}{
		{"All Present", [4]string{"soundscope", "2025-04-13", "abcdef1", "v1.0.0"}, nil},
		{"Missing Version", [4]string{"soundscope", "2025-04-13", "abcdef1", ""}, []string{"BuildVersion is required"}},
		{"Missing Two", [4]string{"", "2025-04-13", "", "v1.0.0"}, []string{"BuildName is required", "BuildCommit is required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info = Info{Name: "soundscope", Time: "unknown", Commit: "unknown", Version: "dev"}
			buildName, buildTime, buildCommit, buildVersion = tt.vars[0], tt.vars[1], tt.vars[2], tt.vars[3]

			err := Initialize()
			if len(tt.wantErrMsg) == 0 {
				if err != nil {
					t.Fatalf("Initialize() error = %v, want nil", err)
				}
				if got := Get(); got.Version != tt.vars[3] || got.Commit != tt.vars[2] {
					t.Errorf("Get() = %+v, flags not applied", got)
				}
				return
			}

			if err == nil {
				t.Fatalf("Initialize() error = nil, want %v", tt.wantErrMsg)
			}
			for _, msg := range tt.wantErrMsg {
				if !strings.Contains(err.Error(), msg) {
					t.Errorf("Initialize() error = %q, missing %q", err, msg)
				}
			}
			if got := Get(); tt.vars[1] != "" && got.Time != tt.vars[1] {
				t.Errorf("present flag not applied: Time = %q", got.Time)
			}
		})
	}
}
