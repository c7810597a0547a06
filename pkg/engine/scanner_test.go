package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hanscan/pkg/config"
)

func newTestScanner(t *testing.T) *FileScanner {
	t.Helper()
	rules := config.Default().Rules
	m, err := NewMatcher(rules)
	require.NoError(t, err)
	return NewFileScanner(m, NewClassifier(m, rules))
}

func TestScan_MultilineCommentStatePersists(t *testing.T) {
	s := newTestScanner(t)

	src := strings.Join([]string{
		"/*",
		"禁止的内容",
		"*/",
		`String s = "你好";`,
	}, "\n")

	findings := s.Scan("A.java", KindJava, strings.NewReader(src))
	require.Len(t, findings, 2)

	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, RegionMultilineComment, findings[0].Region)

	// State is closed again after line 3, so line 4 is a plain string.
	assert.Equal(t, 4, findings[1].Line)
	assert.Equal(t, RegionStringLiteral, findings[1].Region)
}

func TestScan_BlankLinesKeepNumberingAndState(t *testing.T) {
	s := newTestScanner(t)

	src := strings.Join([]string{
		"/*",
		"",
		"",
		"注释内容",
		"*/",
	}, "\n")

	findings := s.Scan("B.java", KindJava, strings.NewReader(src))
	require.Len(t, findings, 1)
	assert.Equal(t, 4, findings[0].Line, "blank lines still count for numbering")
	assert.Equal(t, RegionMultilineComment, findings[0].Region)
}

func TestScan_MarkupTemplateRegion(t *testing.T) {
	s := newTestScanner(t)

	src := strings.Join([]string{
		"<template>",
		"  <div>加载中</div>",
		"</template>",
		"<script>",
		"const label = '提交';",
		"</script>",
	}, "\n")

	findings := s.Scan("App.vue", KindMarkup, strings.NewReader(src))
	require.Len(t, findings, 2)

	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, RegionMarkupTemplate, findings[0].Region)

	assert.Equal(t, 5, findings[1].Line)
	assert.Equal(t, RegionCharacterLiteral, findings[1].Region, "template state must be closed in the script section")
}

func TestScan_TrimsTextAndTagsMessage(t *testing.T) {
	s := newTestScanner(t)

	findings := s.Scan("C.java", KindJava, strings.NewReader("\t// 测试注释  \n"))
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "C.java", f.File)
	assert.Equal(t, 1, f.Line)
	assert.Equal(t, "// 测试注释", f.Text)
	assert.Equal(t, RegionSingleLineComment, f.Region)
	assert.Contains(t, f.Message, string(RegionSingleLineComment))
}

func TestScan_LenientDecoding(t *testing.T) {
	s := newTestScanner(t)

	// A broken byte sequence before a valid ideograph must not abort the
	// line; the invalid bytes are replaced.
	src := "code(\xff\xfe); // 注释\n"
	findings := s.Scan("D.java", KindJava, strings.NewReader(src))
	require.Len(t, findings, 1)
	assert.Equal(t, RegionInlineComment, findings[0].Region)
}

func TestScan_Idempotent(t *testing.T) {
	s := newTestScanner(t)

	src := "// 第一\nclean line\nString s = \"第二\";\n"
	first := s.Scan("E.java", KindJava, strings.NewReader(src))
	second := s.Scan("E.java", KindJava, strings.NewReader(src))
	assert.Equal(t, first, second)
}

func TestScanFile_UnreadableFileYieldsNoFindings(t *testing.T) {
	s := newTestScanner(t)

	findings := s.ScanFile(filepath.Join(t.TempDir(), "missing.java"), KindJava)
	assert.Empty(t, findings)
}

func TestKindForPath(t *testing.T) {
	assert.Equal(t, KindJava, KindForPath("src/main/java/Foo.java"))
	assert.Equal(t, KindMarkup, KindForPath("ui-vue3/src/App.vue"))
	assert.Equal(t, KindScript, KindForPath("ui-vue3/src/api.ts"))
	assert.Equal(t, KindScript, KindForPath("ui-vue3/src/util.js"))
}
