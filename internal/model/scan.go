package model

import "time"

// HeuristicResult holds the four DOM signals computed inside the page.
type HeuristicResult struct {
	HasSkipLink   bool `json:"has_skip_link"`
	TabbableCount int  `json:"tabbable_count"`
	HeadingsCount int  `json:"headings_count"`
	HasARIA       bool `json:"has_aria"`
}

// AuditViolation is one rule failure reported by the ruleset engine.
type AuditViolation struct {
	ID    string      `json:"id"`
	Help  string      `json:"help"`
	Nodes []AuditNode `json:"nodes"`
}

// AuditNode is an element affected by a violation.
type AuditNode struct {
	HTML string `json:"html"`
}

// ScanReport is the typed result of scanning one URL.
type ScanReport struct {
	URL        string           `json:"url"`
	Heuristics HeuristicResult  `json:"heuristics"`
	Violations []AuditViolation `json:"violations"`
	ScannedAt  time.Time        `json:"scanned_at"`
	Duration   time.Duration    `json:"duration_ns"`
}
