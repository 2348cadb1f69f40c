// Package execshell runs external tools with logging.
//
// ShellExecutor wraps a CommandRunner, logs every invocation through zap, and
// converts non-zero exits into CommandFailedError. OSCommandRunner is the
// os/exec backed runner used outside of tests.
package execshell
