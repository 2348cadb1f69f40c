// Package ui renders console output for CLI users: step progress, git sync activity and
// worklog preview tables. Detailed telemetry continues to flow through zap.
package ui
