// Package gitlib reads commit history through libgit2.
//
// It exposes only the read-only operations the collector needs: opening a
// repository, resolving a local branch, and walking its history newest first.
package gitlib
