package compare

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mengfei25/torch-xpu-ops/internal/benchfile"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const perfHeader = "name,speedup,abs_latency\n"

func mustTable(t *testing.T, content string) *benchfile.Table {
	t.Helper()
	table, err := benchfile.Parse(strings.NewReader(content), "test.csv")
	require.NoError(t, err)
	return table
}

func TestCategory(t *testing.T) {
	cases := map[string]string{
		"/logs/inductor_modelA_xpu_performance.csv":                 "modelA",
		"/logs/inductor_x/inductor_timm_models_xpu_performance.csv": "timm_models",
		"/logs/INDUCTOR_Foo_XPU_PERFORMANCE.CSV":                    "Foo",
		"/logs/inductor_m_xpu_performanceXcsv":                      "m",
		"/logs/plain.csv":                                           "/logs/plain.csv",
		"/logs/inductor_old/run_xpu_performance.csv":                "old/run",
	}
	for in, want := range cases {
		assert.Equal(t, want, Category(in), in)
	}
}

func TestNewLabelerCustomAndInvalid(t *testing.T) {
	l, err := NewLabeler([]string{`^.*/`, `\.csv$`})
	require.NoError(t, err)
	assert.Equal(t, "report", l.Label("/a/b/report.CSV"))

	_, err = NewLabeler([]string{"("})
	assert.Error(t, err)
}

func TestBaselinePath(t *testing.T) {
	assert.Equal(t, "/data/cuda//hf/inductor_hf_xpu_performance.csv",
		BaselinePath("/data/xpu/hf/inductor_hf_xpu_performance.csv", "/data/xpu", "/data/cuda"))
	assert.Equal(t, "/b//f.csv", BaselinePath("/A/f.csv", "/a", "/b"))
	assert.Equal(t, "cuda/x/f.csv", BaselinePath("x/f.csv", ".", "cuda"))
	assert.Equal(t, "/other/f.csv", BaselinePath("/other/f.csv", "/xpu", "/cuda"))
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12, "12.0"},
		{0, "0.0"},
		{0.1, "0.1"},
		{1.5, "1.5"},
		{1e-5, "1e-05"},
		{1.5e16, "1.5e+16"},
		{123456789, "123456789.0"},
		{-2.25, "-2.25"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatFloat(c.in))
	}
}

func TestCellStringAndParse(t *testing.T) {
	assert.Equal(t, "", Empty().String())
	assert.Equal(t, "-1", Sentinel(-1).String())
	assert.Equal(t, "0", Sentinel(0).String())
	assert.Equal(t, "10", Number(10, true).String())
	assert.Equal(t, "10.0", Number(10, false).String())
	assert.Equal(t, "nan", Number(math.NaN(), true).String())

	for _, text := range []string{"", "-1", "0", "12.0", "0.75", "1e-05", "nan"} {
		c, err := ParseCell(text)
		require.NoError(t, err)
		assert.Equal(t, text, c.String())
	}
	_, err := ParseCell("abc")
	assert.Error(t, err)
}

func TestMergeTablesUnionAndSentinels(t *testing.T) {
	target := mustTable(t, perfHeader+"A,2.0,10\nB,1.5,4\nC,0.8,0\n")
	baseline := mustTable(t, perfHeader+"A,1.0,30\nD,1.2,5\nB,2,3\n")

	rows := MergeTables("cat", target, baseline)
	require.Len(t, rows, 4)

	got := make([][]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.Record())
	}
	assert.Equal(t, [][]string{
		{"cat", "A", "20.0", "10", "2.0", "30.0", "30", "1.0", "1.5", "3.0"},
		{"cat", "B", "6.0", "4", "1.5", "6.0", "3", "2.0", "1.0", "0.75"},
		{"cat", "C", "0.0", "0", "0.8", "-1", "-1", "-1", "0", "0"},
		{"cat", "D", "-1", "-1", "-1", "6.0", "5", "1.2", "0", "0"},
	}, got)
}

func TestMergeTablesDuplicateNamesUseFirstRow(t *testing.T) {
	target := mustTable(t, perfHeader+"A,2,10\nA,9,99\n")
	baseline := mustTable(t, perfHeader+"A,1,40\n")

	rows := MergeTables("c", target, baseline)
	require.Len(t, rows, 1)
	assert.Equal(t, "20", rows[0].TargetEager.String())
	assert.Equal(t, 2.0, rows[0].EagerRatio.Value)
	assert.Equal(t, 4.0, rows[0].InductorRatio.Value)
}

func TestMergeTablesNonPositiveTargetLatency(t *testing.T) {
	target := mustTable(t, perfHeader+"A,0,10\nB,2,-1\n")
	baseline := mustTable(t, perfHeader+"A,1,10\nB,1,10\n")

	rows := MergeTables("c", target, baseline)
	require.Len(t, rows, 2)
	assert.Equal(t, "0", rows[0].EagerRatio.String(), "zero target eager latency")
	assert.Equal(t, "1.0", rows[0].InductorRatio.String())
	assert.Equal(t, "0", rows[1].EagerRatio.String())
	assert.Equal(t, "0", rows[1].InductorRatio.String())
}

func TestTargetOnlyLeavesBaselineEmpty(t *testing.T) {
	target := mustTable(t, perfHeader+"r1,1.2,10\n")

	rows := TargetOnly("category", target)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"category", "r1", "12.0", "10", "1.2", "", "", "", "", ""}, rows[0].Record())
	assert.True(t, rows[0].BaselineEager.IsEmpty())
	assert.True(t, rows[0].InductorRatio.IsEmpty())
}

func TestClampedGeoMean(t *testing.T) {
	mean, count, ok := ClampedGeoMean([]float64{0.8, 1.5, 2.0})
	require.True(t, ok)
	assert.Equal(t, 3, count)
	assert.InDelta(t, math.Cbrt(3), mean, 1e-12)

	_, _, ok = ClampedGeoMean(nil)
	assert.False(t, ok)
	_, _, ok = ClampedGeoMean([]float64{-1, 0, math.NaN()})
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	target := mustTable(t, perfHeader+"A,2.0,10\nB,1.5,4\nC,0.8,0\n")
	baseline := mustTable(t, perfHeader+"A,1.0,30\nD,1.2,5\nB,2,3\n")
	rows := MergeTables("cat", target, baseline)
	rows = append(rows, TargetOnly("solo", mustTable(t, perfHeader+"E,4,1\n"))...)

	summaries := Summarize(rows)
	require.Len(t, summaries, 3)

	assert.Equal(t, HeaderTargetSpeedup, summaries[0].Column)
	assert.Equal(t, 4, summaries[0].Count)
	assert.InDelta(t, math.Pow(2*1.5*1*4, 0.25), summaries[0].GeoMean, 1e-9)

	assert.Equal(t, 2, summaries[1].Count)
	assert.InDelta(t, math.Sqrt(1.5), summaries[1].GeoMean, 1e-9)

	assert.Equal(t, 2, summaries[2].Count)
	assert.InDelta(t, math.Sqrt(3), summaries[2].GeoMean, 1e-9)
}

func TestSummarizeEmptyIsNotAvailable(t *testing.T) {
	rows := TargetOnly("c", mustTable(t, perfHeader+"A,1.2,1\n"))
	summaries := Summarize(rows)
	assert.True(t, summaries[0].Available)
	assert.False(t, summaries[1].Available)
	assert.Equal(t, "n/a", summaries[1].Display())
	assert.Equal(t, "n/a", summaries[2].Display())
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/runs/xpu/hf/inductor_huggingface_xpu_performance.csv", perfHeader+"bert,2.0,10\ngpt2,1.5,4\n")
	writeFile(t, fs, "/runs/cuda/hf/inductor_huggingface_xpu_performance.csv", perfHeader+"gpt2,2,3\nbert,1.0,30\n")
	writeFile(t, fs, "/runs/xpu/timm/inductor_timm_models_xpu_performance.csv", perfHeader+"r1,1.2,10\n")
	writeFile(t, fs, "/runs/xpu/timm/notes.txt", "ignored")
	require.NoError(t, fs.MkdirAll("/runs/cuda/timm", 0o755))

	rep, err := Run(Options{Fs: fs, TargetDir: "/runs/xpu/", BaselineDir: "/runs/cuda"})
	require.NoError(t, err)

	require.Len(t, rep.Files, 2)
	assert.True(t, rep.Files[0].HasBaseline)
	assert.Equal(t, "/runs/cuda/hf/inductor_huggingface_xpu_performance.csv", rep.Files[0].Baseline)
	assert.Equal(t, 2, rep.Files[0].Rows)
	assert.False(t, rep.Files[1].HasBaseline)

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, "huggingface", rep.Rows[0].Category)
	assert.Equal(t, "bert", rep.Rows[0].Model)
	assert.Equal(t, "gpt2", rep.Rows[1].Model)
	assert.Equal(t, []string{"timm_models", "r1", "12.0", "10", "1.2", "", "", "", "", ""}, rep.Rows[2].Record())
	require.Len(t, rep.Summaries, 3)
}

func TestRunSymlinkedTargetDirectory(t *testing.T) {
	dir := t.TempDir()
	realTarget := filepath.Join(dir, "runs", "xpu")
	require.NoError(t, os.MkdirAll(filepath.Join(realTarget, "hf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(realTarget, "hf", "inductor_huggingface_xpu_performance.csv"), []byte(perfHeader+"bert,2.0,10\n"), 0o644))
	baselineDir := filepath.Join(dir, "cuda")
	require.NoError(t, os.MkdirAll(filepath.Join(baselineDir, "hf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(baselineDir, "hf", "inductor_huggingface_xpu_performance.csv"), []byte(perfHeader+"bert,1.0,30\n"), 0o644))
	link := filepath.Join(dir, "latest")
	if err := os.Symlink(realTarget, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	rep, err := Run(Options{Fs: afero.NewOsFs(), TargetDir: link, BaselineDir: baselineDir})
	require.NoError(t, err)
	require.Len(t, rep.Files, 1)
	assert.True(t, rep.Files[0].HasBaseline)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "bert", rep.Rows[0].Model)
	assert.Equal(t, "1.5", rep.Rows[0].EagerRatio.String())
}

func TestRunMissingDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/xpu", 0o755))

	_, err := Run(Options{Fs: fs, TargetDir: "/nope", BaselineDir: "/xpu"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, benchfile.ErrNotDirectory))
	assert.Contains(t, err.Error(), "target directory")

	_, err = Run(Options{Fs: fs, TargetDir: "/xpu", BaselineDir: "/nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseline directory")
}

func TestRunMalformedFileAborts(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/xpu/inductor_a_xpu_performance.csv", "name,speedup\nm,1\n")
	require.NoError(t, fs.MkdirAll("/cuda", 0o755))

	_, err := Run(Options{Fs: fs, TargetDir: "/xpu", BaselineDir: "/cuda"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, benchfile.ErrMissingColumn))
}

func TestCSVRoundTrip(t *testing.T) {
	target := mustTable(t, perfHeader+"A,2.0,10\nC,0.8,0\n")
	baseline := mustTable(t, perfHeader+"A,1.0,30\nD,1.2,5\n")
	rows := MergeTables("cat", target, baseline)
	rows = append(rows, TargetOnly("solo", mustTable(t, perfHeader+"r1,1.2,10\n"))...)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.Equal(t, "solo,r1,12.0,10,1.2,,,,,", lines[len(lines)-1])

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, back, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].Record(), back[i].Record())
	}
}

func TestReadCSVRejectsWrongHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b,c,d,e,f,g,h,i,j\n"))
	assert.Error(t, err)
}

func TestSaveCSVCreatesDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	rows := TargetOnly("c", mustTable(t, perfHeader+"m,1,1\n"))
	require.NoError(t, SaveCSV(fs, "/out/deep/report.csv", rows))

	data, err := afero.ReadFile(fs, "/out/deep/report.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "c,m,1,1,1,,,,,")
}

func TestPrint(t *testing.T) {
	rows := TargetOnly("cat", mustTable(t, perfHeader+"resnet50,1.0,10\n"))
	rep := Report{Rows: rows, Summaries: Summarize(rows)}

	var buf bytes.Buffer
	Print(&buf, rep)
	out := buf.String()
	assert.Contains(t, out, "resnet50")
	assert.Contains(t, out, HeaderInductorRatio)
	assert.Contains(t, out, "Inductor vs. Eager [Target] : 1.0\n")
	assert.Contains(t, out, "Target vs. Baseline [Eager] : n/a\n")
}
