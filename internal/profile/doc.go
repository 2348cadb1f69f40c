// Package profile persists per-user settings: the tracker token, author aliases,
// and the list of tracked repositories.
package profile
