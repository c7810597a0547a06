package engine

import (
	"regexp"
	"strings"

	"github.com/user/hanscan/pkg/config"
)

// ScanState carries the line-granularity flags a file scan threads across
// lines. Both flags describe state before the current line; the scanner
// advances them after classification using markers on the original line.
// One fresh state per file, never shared.
type ScanState struct {
	InComment  bool // inside an open /* ... */ block
	InTemplate bool // inside a markup <template> region (markup kind only)
}

// Quote-delimited region scans are deliberately escape-naive: a quote
// preceded by a backslash still terminates a segment. Tightening this
// would shift lines between the literal categories and
// unknown/identifier-or-code, invalidating trusted-clean baselines.
var (
	doubleQuoted   = regexp.MustCompile(`"[^"]*"`)
	backtickQuoted = regexp.MustCompile("`[^`]*`")
	singleQuoted   = regexp.MustCompile(`'[^']*'`)
)

// Classifier attributes a flagged line's disallowed content to a single
// syntactic region. Checks run in a fixed priority order, first match
// wins: regions overlap within one line and the most enclosing category
// must be reported.
type Classifier struct {
	matcher *Matcher

	commentOpen   string
	commentClose  string
	commentLine   string
	templateOpen  string
	templateClose string
}

// NewClassifier builds a classifier over the given matcher and markers.
func NewClassifier(m *Matcher, rules config.Rules) *Classifier {
	return &Classifier{
		matcher:       m,
		commentOpen:   rules.CommentOpen,
		commentClose:  rules.CommentClose,
		commentLine:   rules.CommentLine,
		templateOpen:  rules.TemplateOpen,
		templateClose: rules.TemplateClose,
	}
}

// Classify returns the best-matching region for a line already known to
// trip the matcher. st is the carried state before this line.
func (c *Classifier) Classify(line string, st ScanState, kind FileKind) RegionCategory {
	stripped := trimmed(line)

	// 1. Open multi-line comment, or one starting here.
	if st.InComment || strings.HasPrefix(stripped, c.commentOpen) {
		return RegionMultilineComment
	}

	// 2. Whole line is a single-line comment.
	if strings.HasPrefix(stripped, c.commentLine) {
		return RegionSingleLineComment
	}

	// 3. Trailing comment: the suffix from the marker must independently
	// trip the matcher, otherwise the marker is incidental.
	if idx := strings.Index(line, c.commentLine); idx >= 0 {
		if c.matcher.HasViolation(trimmed(line[idx:])) {
			return RegionInlineComment
		}
	}

	// 4. Markup template region (only meaningful for the markup kind).
	if kind == KindMarkup && st.InTemplate {
		return RegionMarkupTemplate
	}

	// 5–7. Quote-delimited literals, most common delimiter first.
	if c.anySegmentViolates(line, '"') {
		return RegionStringLiteral
	}
	if c.anySegmentViolates(line, '`') {
		return RegionTemplateLiteral
	}
	if c.anySegmentViolates(line, '\'') {
		return RegionCharacterLiteral
	}

	// 8. Bare identifier/code: whatever survives removing every literal
	// and any trailing comment.
	if c.matcher.HasViolation(trimmed(c.stripLiterals(line))) {
		return RegionIdentifier
	}

	// 9. Detected at line granularity but unattributable. Accepted blind
	// spot, not an error.
	return RegionUnknown
}

// anySegmentViolates scans the substrings between consecutive delimiter
// occurrences (the quoted segments) and reports whether any trips the
// matcher. No escape handling, see note above.
func (c *Classifier) anySegmentViolates(line string, delim rune) bool {
	parts := strings.Split(line, string(delim))
	// parts[1], parts[3], ... are inside quotes.
	for i := 1; i < len(parts); i += 2 {
		if c.matcher.HasViolation(parts[i]) {
			return true
		}
	}
	return false
}

// stripLiterals removes all quoted spans and any single-line-comment
// suffix, leaving bare identifiers and code.
func (c *Classifier) stripLiterals(line string) string {
	if idx := strings.Index(line, c.commentLine); idx >= 0 {
		line = line[:idx]
	}
	line = doubleQuoted.ReplaceAllString(line, "")
	line = backtickQuoted.ReplaceAllString(line, "")
	line = singleQuoted.ReplaceAllString(line, "")
	return line
}

// Advance returns the carried state after examining the original,
// unmodified line. Marker pairs use sequential semantics: the last marker
// on the line decides the flag, so an open and close on one line net to
// closed. Nested comments are not modeled.
func (c *Classifier) Advance(line string, st ScanState, kind FileKind) ScanState {
	open := strings.LastIndex(line, c.commentOpen)
	cls := strings.LastIndex(line, c.commentClose)
	if open >= 0 && open > cls {
		st.InComment = true
	} else if cls >= 0 {
		st.InComment = false
	}

	if kind == KindMarkup {
		tOpen := strings.LastIndex(line, c.templateOpen)
		tClose := strings.LastIndex(line, c.templateClose)
		if tClose >= 0 && tClose >= tOpen {
			st.InTemplate = false
		} else if tOpen >= 0 {
			st.InTemplate = true
		}
	}
	return st
}
