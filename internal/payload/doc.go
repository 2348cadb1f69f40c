// Package payload converts synthesized worklog entries into tracker submission records.
package payload
