package runner_test

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/stagereport/internal/config"
	"github.com/Sumatoshi-tech/stagereport/internal/runner"
	"github.com/Sumatoshi-tech/stagereport/pkg/report"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

const resultsJSON = `[
  {"frame_id": 0, "timestamp": 0.0, "stage": "0"},
  {"frame_id": 1, "timestamp": 0.5, "stage": "0"},
  {"frame_id": 2, "timestamp": 1.0, "stage": "-1"},
  {"frame_id": 3, "timestamp": 1.5, "stage": "1"},
  {"frame_id": 4, "timestamp": 2.0, "stage": "1"}
]`

func writePNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func writeInputs(t *testing.T) (dir, resultsPath, cutPath string) {
	t.Helper()

	dir = t.TempDir()
	resultsPath = filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(resultsPath, []byte(resultsJSON), 0o600))

	frames := filepath.Join(dir, "frames")
	require.NoError(t, os.Mkdir(frames, 0o755))

	for id := range 5 {
		writePNG(t, filepath.Join(frames, strconv.Itoa(id)+".png"))
	}

	doc := map[string]any{
		"frames_dir": "frames",
		"ranges": []stage.SimilarityRange{
			{Start: 0, End: 1, StartTime: 0, EndTime: 0.5, SSIM: 0.99, MSE: 0.1, PSNR: 40},
			{Start: 2, End: 2, StartTime: 1, EndTime: 1, SSIM: 0.5, MSE: 20, PSNR: 15},
			{Start: 3, End: 4, StartTime: 1.5, EndTime: 2, SSIM: 0.98, MSE: 0.2, PSNR: 38},
		},
	}

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	cutPath = filepath.Join(dir, "cut.json")
	require.NoError(t, os.WriteFile(cutPath, raw, 0o600))

	return dir, resultsPath, cutPath
}

func TestRender_WritesReportAndSummary(t *testing.T) {
	t.Parallel()

	dir, resultsPath, cutPath := writeInputs(t)
	out := filepath.Join(dir, "report.html")
	summaryPath := filepath.Join(dir, "summary.json")

	run := runner.New(config.Default(), nil, nil, nil)

	outcome, err := run.Render(context.Background(), runner.Job{
		ResultsPath: resultsPath,
		CutPath:     cutPath,
		OutputPath:  out,
		SummaryPath: summaryPath,
		Links:       []string{filepath.Join(dir, "frames")},
		Extras:      []report.Extra{{Name: "device", Value: "pixel"}},
	})
	require.NoError(t, err)
	assert.Equal(t, out, outcome.ReportPath)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "pixel")
	assert.Contains(t, string(html), `id="thumbnail"`)

	require.NotNil(t, outcome.Summary)
	assert.Equal(t, 5, outcome.Summary.Samples)
	assert.Len(t, outcome.Summary.ChangingCosts, 1)
	require.Len(t, outcome.Summary.Thumbnails, 1)
	assert.Equal(t, "2(1.0) - 2(1.0)", outcome.Summary.Thumbnails[0])
	assert.Contains(t, string(html), outcome.Summary.Thumbnails[0])

	raw, err := os.ReadFile(summaryPath)
	require.NoError(t, err)

	var decoded report.Summary
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 5, decoded.Samples)
	assert.Equal(t, []string{filepath.Join(dir, "frames")}, decoded.Links)
}

func TestRender_ManualThumbnail(t *testing.T) {
	t.Parallel()

	dir, resultsPath, cutPath := writeInputs(t)
	thumb := filepath.Join(dir, "home.png")
	writePNG(t, thumb)

	run := runner.New(config.Default(), nil, nil, nil)

	outcome, err := run.Render(context.Background(), runner.Job{
		ResultsPath: resultsPath,
		CutPath:     cutPath,
		OutputPath:  filepath.Join(dir, "report.html"),
		Thumbnails:  []runner.NamedFile{{Name: "home", Path: thumb}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, outcome.Summary.Thumbnails)
}

func TestRender_AutoPathInOutputDir(t *testing.T) {
	t.Parallel()

	dir, resultsPath, _ := writeInputs(t)
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	cfg := config.Default()
	cfg.Report.OutputDir = outDir

	outcome, err := runner.New(cfg, nil, nil, nil).Render(context.Background(), runner.Job{ResultsPath: resultsPath})
	require.NoError(t, err)
	assert.Equal(t, outDir, filepath.Dir(outcome.ReportPath))
	assert.FileExists(t, outcome.ReportPath)
}

func TestSummarize_WritesNothing(t *testing.T) {
	t.Parallel()

	dir, resultsPath, cutPath := writeInputs(t)

	summary, err := runner.New(nil, nil, nil, nil).Summarize(context.Background(), runner.Job{
		ResultsPath: resultsPath,
		CutPath:     cutPath,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Samples)
	assert.Len(t, summary.Thumbnails, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		assert.NotEqual(t, ".html", filepath.Ext(e.Name()))
	}
}

func TestRunner_Errors(t *testing.T) {
	t.Parallel()

	dir, resultsPath, _ := writeInputs(t)
	run := runner.New(config.Default(), nil, nil, nil)

	_, err := run.Render(context.Background(), runner.Job{})
	require.ErrorIs(t, err, runner.ErrNoResults)

	_, err = run.Summarize(context.Background(), runner.Job{ResultsPath: filepath.Join(dir, "missing.json")})
	require.Error(t, err)

	_, err = run.Render(context.Background(), runner.Job{
		ResultsPath: resultsPath,
		Thumbnails:  []runner.NamedFile{{Name: "x", Path: filepath.Join(dir, "missing.png")}},
	})
	require.Error(t, err)

	short := filepath.Join(dir, "short.json")
	require.NoError(t, os.WriteFile(short, []byte(`[{"frame_id": 0, "timestamp": 0, "stage": "0"}]`), 0o600))

	_, err = run.Summarize(context.Background(), runner.Job{ResultsPath: short})
	require.ErrorIs(t, err, report.ErrInvalidInput)
}
