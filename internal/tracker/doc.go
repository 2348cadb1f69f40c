// Package tracker submits and removes worklogs through a Jira-compatible REST API.
package tracker
