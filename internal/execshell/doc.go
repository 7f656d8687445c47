// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle events,
// and turns non-zero exits into CommandFailedError values that carry the
// command line, exit code, and combined output. OSCommandRunner is the
// os/exec-backed default; every invocation names its working directory
// explicitly instead of relying on the process working directory.
package execshell
