// Package ui renders command lifecycle events for people reading a terminal.
//
// It is wired only when the console log format is selected; structured runs
// keep the same information in the executor's JSON log fields.
package ui
