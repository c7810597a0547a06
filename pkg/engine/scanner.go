package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/user/hanscan/pkg/logging"
)

// FileScanner walks a file's lines, threads the carried ScanState, and
// emits one Finding per flagged line. Strictly sequential within a file:
// classification depends on state from all prior lines.
type FileScanner struct {
	matcher    *Matcher
	classifier *Classifier
}

// NewFileScanner wires the matcher and classifier into a scanner.
func NewFileScanner(m *Matcher, c *Classifier) *FileScanner {
	return &FileScanner{matcher: m, classifier: c}
}

// ScanFile opens and scans path. An unreadable file is a warning and zero
// findings, never a run abort.
func (s *FileScanner) ScanFile(path string, kind FileKind) []Finding {
	f, err := os.Open(path)
	if err != nil {
		logging.Warn("skipping unreadable file", zap.String("file", path), zap.Error(err))
		return nil
	}
	defer f.Close()
	return s.Scan(path, kind, f)
}

// Scan reads r line by line with lenient decoding (malformed byte
// sequences are replaced, never fatal) and returns findings in ascending
// line order. Line numbers are 1-based over the physical line sequence.
func (s *FileScanner) Scan(path string, kind FileKind, r io.Reader) []Finding {
	var findings []Finding
	var st ScanState

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.ToValidUTF8(sc.Text(), "�")
		stripped := trimmed(line)

		// Blank lines are skipped without evaluating state transitions:
		// markers are line content, and blank lines carry none.
		if stripped == "" {
			continue
		}

		if s.matcher.HasViolation(stripped) {
			region := s.classifier.Classify(line, st, kind)
			findings = append(findings, Finding{
				File:    path,
				Line:    lineNo,
				Text:    stripped,
				Region:  region,
				Message: fmt.Sprintf("disallowed CJK content in %s", region),
			})
		}

		// State advances on every non-blank line, flagged or not, using
		// the original unmodified line.
		st = s.classifier.Advance(line, st, kind)
	}
	if err := sc.Err(); err != nil {
		logging.Warn("read aborted mid-file", zap.String("file", path), zap.Error(err))
	}
	return findings
}

// KindForPath maps a file path to its classification kind by extension.
func KindForPath(path string) FileKind {
	switch filepath.Ext(path) {
	case ".vue":
		return KindMarkup
	case ".java":
		return KindJava
	default:
		return KindScript
	}
}
