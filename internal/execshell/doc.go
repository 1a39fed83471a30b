// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and human-readable
// lifecycle messages, OSCommandRunner runs processes through os/exec, and the
// CommandDetails/ExecutionResult pair keeps git and gh invocations testable.
package execshell
