package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/user/hanscan/pkg/config"
)

// Matcher decides whether a line of text contains genuine disallowed
// content once the known false-positive idioms are discounted. It is a
// pure predicate: no state, deterministic.
type Matcher struct {
	scriptLo    rune
	scriptHi    rune
	punctuation map[rune]struct{}
	exclusions  []*regexp.Regexp
}

// NewMatcher compiles the rule set. A pattern that fails to compile is a
// configuration defect and aborts construction.
func NewMatcher(rules config.Rules) (*Matcher, error) {
	m := &Matcher{
		scriptLo:    rules.ScriptLo,
		scriptHi:    rules.ScriptHi,
		punctuation: make(map[rune]struct{}, len(rules.Punctuation)),
	}
	for _, r := range rules.Punctuation {
		m.punctuation[r] = struct{}{}
	}
	for _, rule := range rules.Exclusions {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("exclusion pattern %q: %w", rule.Pattern, err)
		}
		m.exclusions = append(m.exclusions, re)
	}
	return m, nil
}

// HasViolation reports whether text contains disallowed content that
// survives removal of every matching exclusion idiom. Empty input is
// trivially clean.
func (m *Matcher) HasViolation(text string) bool {
	if text == "" || !m.containsDisallowed(text) {
		return false
	}
	// Discount pass: strip each matching exclusion idiom from a working
	// copy and re-test. Removal, not line skipping: a line may hold both
	// an excluded idiom and a real violation.
	remainder := text
	for _, re := range m.exclusions {
		remainder = re.ReplaceAllString(remainder, "")
	}
	return m.containsDisallowed(remainder)
}

// containsDisallowed is the cheap presence test: any code point in the
// ideograph range or any disallowed punctuation glyph.
func (m *Matcher) containsDisallowed(s string) bool {
	for _, r := range s {
		if r >= m.scriptLo && r <= m.scriptHi {
			return true
		}
		if _, ok := m.punctuation[r]; ok {
			return true
		}
	}
	return false
}

// trimmed is the caller-side normalization every matcher input goes
// through: leading/trailing whitespace stripped.
func trimmed(line string) string {
	return strings.TrimSpace(line)
}
