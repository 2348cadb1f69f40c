// Package cli constructs the tempo command-line interface. It wires the Cobra
// command hierarchy to the configuration loader, the zap logger and the
// publish, delete, configure and repo workflows.
package cli
