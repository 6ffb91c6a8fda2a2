package report

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

// MinResults is the fewest classification results a report can be built from;
// the sampling offset needs two samples.
const MinResults = 2

// ErrInvalidInput is returned when fewer than MinResults results are supplied.
var ErrInvalidInput = errors.New("invalid input")

// StageTimeline is the stage of every sample keyed by its formatted timestamp.
type StageTimeline struct {
	Timestamps []string
	Stages     []string
}

// StageDurations is the total time spent in each stage, stages sorted ascending.
type StageDurations struct {
	Stages    []string
	Durations []float64
}

// SimilarityTrend holds the per-range similarity metrics of a cut result.
type SimilarityTrend struct {
	StartTimes []string
	SSIM       []float64
	MSE        []float64
	PSNR       []float64
}

// BuildStageTimeline returns one point per result, duplicates included.
func BuildStageTimeline(results []stage.ClassificationResult) StageTimeline {
	tl := StageTimeline{
		Timestamps: make([]string, len(results)),
		Stages:     make([]string, len(results)),
	}

	for i, r := range results {
		tl.Timestamps[i] = stage.FormatSeconds(r.Timestamp)
		tl.Stages[i] = r.Stage
	}

	return tl
}

// BuildStageDurations computes, for each distinct stage, the span between its
// first and last sample (ordered by frame id) plus one sampling interval.
// The sampling interval is the delta between the first two results.
func BuildStageDurations(results []stage.ClassificationResult) (StageDurations, error) {
	err := checkResults(results)
	if err != nil {
		return StageDurations{}, err
	}

	offset := results[1].Timestamp - results[0].Timestamp

	groups := make(map[string][]stage.ClassificationResult)
	for _, r := range results {
		groups[r.Stage] = append(groups[r.Stage], r)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}

	slices.Sort(names)

	sd := StageDurations{
		Stages:    names,
		Durations: make([]float64, len(names)),
	}

	for i, name := range names {
		group := groups[name]
		slices.SortStableFunc(group, func(a, b stage.ClassificationResult) int {
			return cmp.Compare(a.FrameID, b.FrameID)
		})

		sd.Durations[i] = group[len(group)-1].Timestamp - group[0].Timestamp + offset
	}

	return sd, nil
}

// AsMap returns the durations keyed by stage.
func (sd StageDurations) AsMap() map[string]float64 {
	m := make(map[string]float64, len(sd.Stages))
	for i, s := range sd.Stages {
		m[s] = sd.Durations[i]
	}

	return m
}

// BuildSimilarityTrend aligns ssim, mse and psnr with each range's start time,
// keeping the ranges' original order.
func BuildSimilarityTrend(ranges []stage.SimilarityRange) SimilarityTrend {
	st := SimilarityTrend{
		StartTimes: make([]string, len(ranges)),
		SSIM:       make([]float64, len(ranges)),
		MSE:        make([]float64, len(ranges)),
		PSNR:       make([]float64, len(ranges)),
	}

	for i, r := range ranges {
		st.StartTimes[i] = stage.FormatSeconds(r.StartTime)
		st.SSIM[i] = r.SSIM
		st.MSE[i] = r.MSE
		st.PSNR[i] = r.PSNR
	}

	return st
}

func checkResults(results []stage.ClassificationResult) error {
	if len(results) < MinResults {
		return fmt.Errorf("%w: need at least %d classification results, got %d",
			ErrInvalidInput, MinResults, len(results))
	}

	return nil
}
