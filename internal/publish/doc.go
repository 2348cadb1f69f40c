// Package publish drives a monthly worklog run: it selects the period, synchronizes and
// walks the tracked repositories, synthesizes entries, previews them and submits the
// accepted ones to the tracker, recording each in the local ledger. It also removes
// worklogs a previous run published.
package publish
