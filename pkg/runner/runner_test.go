package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hanscan/pkg/config"
	"github.com/user/hanscan/pkg/engine"
	"github.com/user/hanscan/pkg/walker"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRun_CollectsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.java")
	b := filepath.Join(dir, "B.java")
	c := filepath.Join(dir, "C.vue")

	writeFile(t, a, "// 注释一\nclean();\n")
	writeFile(t, b, "public class B {}\n")
	writeFile(t, c, "<template>\n<div>加载中</div>\n</template>\n")

	cfg := config.Default()
	run, err := New(cfg)
	require.NoError(t, err)

	report, err := run.Run([]walker.Target{
		{Path: a, Kind: engine.KindJava},
		{Path: b, Kind: engine.KindJava},
		{Path: c, Kind: engine.KindMarkup},
	})
	require.NoError(t, err)

	findings := report.Sorted()
	require.Len(t, findings, 2)
	assert.Equal(t, a, findings[0].File)
	assert.Equal(t, engine.RegionSingleLineComment, findings[0].Region)
	assert.Equal(t, c, findings[1].File)
	assert.Equal(t, engine.RegionMarkupTemplate, findings[1].Region)
}

func TestRun_MissingFileDoesNotAbort(t *testing.T) {
	cfg := config.Default()
	run, err := New(cfg)
	require.NoError(t, err)

	dir := t.TempDir()
	present := filepath.Join(dir, "Present.java")
	writeFile(t, present, "// 内容\n")

	report, err := run.Run([]walker.Target{
		{Path: filepath.Join(dir, "gone.java"), Kind: engine.KindJava},
		{Path: present, Kind: engine.KindJava},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Len())
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	var targets []walker.Target
	for _, name := range []string{"Z.java", "M.java", "A.java"} {
		p := filepath.Join(dir, name)
		writeFile(t, p, "// 文本\n")
		targets = append(targets, walker.Target{Path: p, Kind: engine.KindJava})
	}

	cfg := config.Default()
	run, err := New(cfg)
	require.NoError(t, err)

	first, err := run.Run(targets)
	require.NoError(t, err)
	second, err := run.Run(targets)
	require.NoError(t, err)
	assert.Equal(t, first.Sorted(), second.Sorted())
}

func TestNew_BadRuleSetFails(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.Exclusions = append(cfg.Rules.Exclusions, config.ExclusionRule{Pattern: `(`})
	_, err := New(cfg)
	assert.Error(t, err)
}
