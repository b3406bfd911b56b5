package entry

import "strings"

// Entry is the diary text saved for one calendar date. The date is the
// identity key; there is at most one entry per date.
type Entry struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Blank reports whether the content holds nothing but whitespace.
func (e Entry) Blank() bool {
	return strings.TrimSpace(e.Content) == ""
}

func (e Entry) String() string {
	return e.Date
}

// Index is the ordered list of dates known to have entries, in the order the
// server returned them.
type Index []string

// Contains reports whether date is already listed.
func (i Index) Contains(date string) bool {
	for _, d := range i {
		if d == date {
			return true
		}
	}
	return false
}

// CheckResult is the outcome of a server-side banned-word check. A result
// fully supersedes any previous one.
type CheckResult struct {
	Matched bool   `json:"matched"`
	Snippet string `json:"snippet,omitempty"`
}

// RulesInfo is the metadata the server exposes about its banned-word rules.
// The patterns themselves are never sent to the client.
type RulesInfo struct {
	RuleCount int    `json:"rule_count"`
	Message   string `json:"message,omitempty"`
}
