// Package compileinfo reports which commit of proteomisc a command was built
// from, so that figures and interim tables can be traced back to the code
// that made them.
package compileinfo

import (
	"fmt"
	"log"
	"runtime/debug"
)

type CompileInfo struct {
	Command    string
	Module     string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Command == "" {
		return "no build information embedded in this binary"
	}

	out := fmt.Sprintf("%s (%s %s) built with %s", c.Command, c.Module, c.Version, c.GoVersion)
	if c.Commit != "" {
		out += fmt.Sprintf(" at commit %s (%s)", c.Commit, c.CommitTime)
	}
	if c.Modified {
		out += " with uncommitted changes"
	}

	return out
}

func Get() CompileInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		Command:   bi.Path,
		Module:    bi.Main.Path,
		Version:   bi.Main.Version,
		GoVersion: bi.GoVersion,
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// Log writes the build description to the standard logger.
func Log() {
	log.Println(Get())
}
