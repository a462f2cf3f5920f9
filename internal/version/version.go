// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X keyrecover/internal/version.Version=..."
var (
	Version   = "0.0.0-development"
	GitCommit = ""
	BuildDate = ""
)

// Info returns the line printed by --version. A missing commit falls back to
// the VCS revision the Go toolchain stamped into the binary.
func Info() string {
	commit := GitCommit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		commit = "unknown"
	}
	built := BuildDate
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("keyrecover %s (commit %s, built %s, %s)", Version, commit, built, runtime.Version())
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			rev := setting.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
			return rev
		}
	}
	return ""
}
