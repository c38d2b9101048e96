// Package report renders scan results.
//
// Text is the canonical rendering returned by the HTTP endpoint. Its line
// order is fixed: header, the four heuristic lines, then the ruleset section
// with one line per violation followed by one indented line per affected
// node, exactly in the order the ruleset engine reported them.
//
// The Writer implementations exist for the command line: TextWriter (with
// optional terminal colours), MarkdownWriter and JSONWriter.
package report
