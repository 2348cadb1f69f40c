// Package collector walks tracked repositories and extracts ticket-tagged commits
// authored by the current user within a reporting window.
package collector
