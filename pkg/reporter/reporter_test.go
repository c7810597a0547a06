package reporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hanscan/pkg/engine"
)

func sampleReport() *engine.Report {
	r := engine.NewReport()
	r.AddFindings([]engine.Finding{
		{File: "a.java", Line: 3, Text: "// 注释", Region: engine.RegionSingleLineComment, Message: "disallowed CJK content in single-line-comment"},
		{File: "b.vue", Line: 7, Text: "<div>加载中</div>", Region: engine.RegionMarkupTemplate, Message: "disallowed CJK content in markup-template"},
	})
	return r
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Format("sarif"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	rep, err := New(FormatText, &buf)
	require.NoError(t, err)

	rep.Render(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "a.java:")
	assert.Contains(t, out, "Line 3 [single-line-comment]: // 注释")
	assert.Contains(t, out, "b.vue:")
	assert.Contains(t, out, "Total: 2 finding(s)")
	assert.Contains(t, out, "markup-template")
}

func TestRender_TextClean(t *testing.T) {
	var buf bytes.Buffer
	rep, err := New(FormatText, &buf)
	require.NoError(t, err)

	rep.Render(engine.NewReport())
	assert.Contains(t, buf.String(), "No disallowed content found.")
}

func TestRender_GitHubAnnotations(t *testing.T) {
	var buf bytes.Buffer
	rep, err := New(FormatGitHub, &buf)
	require.NoError(t, err)

	rep.Render(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "::error file=a.java,line=3::")
	assert.Contains(t, out, "::error file=b.vue,line=7::")
}

func TestRenderDiff_Text(t *testing.T) {
	var buf bytes.Buffer
	rep, err := New(FormatText, &buf)
	require.NoError(t, err)

	rep.RenderDiff(engine.SnapshotDiff{
		New:       []engine.Finding{{File: "n.java", Line: 1, Text: "// 新", Region: engine.RegionSingleLineComment}},
		Fixed:     []engine.Finding{{File: "f.java", Line: 2, Text: "// 旧", Region: engine.RegionSingleLineComment}},
		Unchanged: []engine.Finding{{File: "u.java", Line: 3}},
	})
	out := buf.String()

	assert.Contains(t, out, "NEW: 1")
	assert.Contains(t, out, "[+] n.java:1")
	assert.Contains(t, out, "FIXED: 1")
	assert.Contains(t, out, "[-] f.java:2")
	assert.Contains(t, out, "UNCHANGED: 1")
}

func TestRenderDiff_GitHubOnlyAnnotatesNew(t *testing.T) {
	var buf bytes.Buffer
	rep, err := New(FormatGitHub, &buf)
	require.NoError(t, err)

	rep.RenderDiff(engine.SnapshotDiff{
		New:   []engine.Finding{{File: "n.java", Line: 1}},
		Fixed: []engine.Finding{{File: "f.java", Line: 2}},
	})
	out := buf.String()

	assert.Contains(t, out, "::error file=n.java,line=1::")
	assert.NotContains(t, out, "f.java")
}
