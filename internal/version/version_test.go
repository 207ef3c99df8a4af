package version

import (
	"regexp"
	"testing"
)

var ansiEscapes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestVersionIsSemantic(t *testing.T) {
	plain := ansiEscapes.ReplaceAllString(Version, "")
	if !regexp.MustCompile(`^\d+\.\d+\.\d+$`).MatchString(plain) {
		t.Fatalf("Version = %q, want major.minor.patch", plain)
	}
}

func TestBuildMetadataDefaultsEmpty(t *testing.T) {
	// GitCommit and BuildDate are injected via -ldflags; without injection
	// they stay empty and the CLI omits them.
	if GitCommit != "" || BuildDate != "" {
		t.Fatalf("GitCommit = %q, BuildDate = %q, want empty defaults", GitCommit, BuildDate)
	}
}
