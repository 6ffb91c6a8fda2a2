package stage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

func TestDecodeResults_BareList(t *testing.T) {
	t.Parallel()

	input := `[
  {"frame_id": 1, "timestamp": 0.0, "stage": "0"},
  {"frame_id": 2, "timestamp": 0.04, "stage": "-1"}
]`

	results, err := stage.DecodeResults(strings.NewReader(input), stage.FormatJSON)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, stage.ClassificationResult{FrameID: 1, Timestamp: 0, Stage: "0"}, results[0])
	assert.True(t, results[1].IsChanging())
}

func TestDecodeResults_Envelope(t *testing.T) {
	t.Parallel()

	input := `{"data": [{"frame_id": 3, "timestamp": 1.5, "stage": "home"}]}`

	results, err := stage.DecodeResults(strings.NewReader(input), stage.FormatJSON)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "home", results[0].Stage)
	assert.InDelta(t, 1.5, results[0].Timestamp, 1e-9)
}

func TestDecodeResults_YAMLIntegerStage(t *testing.T) {
	t.Parallel()

	input := `
- frame_id: 1
  timestamp: 0
  stage: 0
- frame_id: 2
  timestamp: 0.5
  stage: -1
- frame_id: 3
  timestamp: 1
  stage: "1"
`

	results, err := stage.DecodeResults(strings.NewReader(input), stage.FormatYAML)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "0", results[0].Stage)
	assert.Equal(t, stage.ChangingFlag, results[1].Stage)
	assert.Equal(t, "1", results[2].Stage)
}

func TestDecodeResults_SchemaViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "missing stage", input: `[{"frame_id": 1, "timestamp": 0}]`},
		{name: "negative frame", input: `[{"frame_id": -1, "timestamp": 0, "stage": "a"}]`},
		{name: "string timestamp", input: `[{"frame_id": 1, "timestamp": "x", "stage": "a"}]`},
		{name: "object without data", input: `{"items": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := stage.DecodeResults(strings.NewReader(tt.input), stage.FormatJSON)
			require.ErrorIs(t, err, stage.ErrSchema)
		})
	}
}

func TestLoadResults_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("frame_id,timestamp,stage\n"), 0o600))

	_, err := stage.LoadResults(path)
	require.ErrorIs(t, err, stage.ErrUnsupportedFormat)
}

func TestLoadResults_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.yml")
	content := "data:\n  - {frame_id: 1, timestamp: 0.0, stage: a}\n  - {frame_id: 2, timestamp: 0.1, stage: b}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	results, err := stage.LoadResults(path)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[1].Stage)
}
