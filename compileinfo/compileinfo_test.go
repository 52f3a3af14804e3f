package compileinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Path:      "github.com/carbocation/proteomisc/cmd/makedataset",
		Main:      debug.Module{Path: "github.com/carbocation/proteomisc", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	got := fromBuildInfo(bi)
	if got.Commit != "abc123" || !got.Modified || got.Module != "github.com/carbocation/proteomisc" {
		t.Errorf("Unexpected %+v", got)
	}

	s := got.String()
	for _, part := range []string{"cmd/makedataset", "go1.24.0", "abc123", "uncommitted"} {
		if !strings.Contains(s, part) {
			t.Errorf("%q does not mention %q", s, part)
		}
	}

	if s := (CompileInfo{}).String(); !strings.Contains(s, "no build information") {
		t.Errorf("Unexpected empty description %q", s)
	}
}
