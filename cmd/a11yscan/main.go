// Package main provides the entry point for the a11yscan CLI.
//
// a11yscan loads a web page in headless Chrome, runs the axe-core WCAG 2 A/AA
// rules plus skip link, heading, focusable-element and ARIA heuristics, and
// reports the result.
//
// Usage:
//
//	a11yscan serve
//	a11yscan scan <url>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
