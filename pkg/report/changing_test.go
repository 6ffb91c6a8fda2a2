package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/stagereport/pkg/report"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

func TestCalcChangingCost_NoTransitions(t *testing.T) {
	t.Parallel()

	costs := report.CalcChangingCost([]stage.ClassificationResult{
		res(0, 0, "0"), res(1, 0.5, "0"), res(2, 1, "1"),
	})
	assert.Empty(t, costs)
}

func TestCalcChangingCost_SingleRun(t *testing.T) {
	t.Parallel()

	costs := report.CalcChangingCost([]stage.ClassificationResult{
		res(0, 0, "A"), res(1, 1, stage.ChangingFlag), res(2, 2, stage.ChangingFlag), res(3, 3, "B"),
	})

	require.Len(t, costs, 1)
	assert.InDelta(t, 3.0, costs[0].Cost, 1e-9)
	assert.Equal(t, "A(frame id=0 / time=0.0) - B(frame id=3 / time=3.0)", costs[0].Label)
	assert.Equal(t, "stage changing cost: A(frame id=0 / time=0.0) - B(frame id=3 / time=3.0)", costs[0].ExtraName())
	assert.Equal(t, "3.0", costs[0].ExtraValue())
}

func TestCalcChangingCost_MultipleRunsInOrder(t *testing.T) {
	t.Parallel()

	costs := report.CalcChangingCost([]stage.ClassificationResult{
		res(0, 0, "0"),
		res(1, 0.5, stage.ChangingFlag),
		res(2, 1, "1"),
		res(3, 1.5, "1"),
		res(4, 2, stage.ChangingFlag),
		res(5, 2.5, stage.ChangingFlag),
		res(6, 3, "2"),
	})

	require.Len(t, costs, 2)
	assert.InDelta(t, 1.0, costs[0].Cost, 1e-9)
	assert.Equal(t, "0(frame id=0 / time=0.0) - 1(frame id=2 / time=1.0)", costs[0].Label)
	assert.InDelta(t, 1.5, costs[1].Cost, 1e-9)
	assert.Equal(t, "1(frame id=3 / time=1.5) - 2(frame id=6 / time=3.0)", costs[1].Label)
}

func TestCalcChangingCost_TrailingRunIgnored(t *testing.T) {
	t.Parallel()

	costs := report.CalcChangingCost([]stage.ClassificationResult{
		res(0, 0, "0"), res(1, 1, stage.ChangingFlag), res(2, 2, stage.ChangingFlag),
	})
	assert.Empty(t, costs)
}

func TestCalcChangingCost_NonMonotonicYieldsNegative(t *testing.T) {
	t.Parallel()

	costs := report.CalcChangingCost([]stage.ClassificationResult{
		res(0, 5, "0"), res(1, 4, stage.ChangingFlag), res(2, 1, "1"),
	})

	require.Len(t, costs, 1)
	assert.InDelta(t, -4.0, costs[0].Cost, 1e-9)
}

func TestCalcChangingCost_ShortInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, report.CalcChangingCost(nil))
	assert.Empty(t, report.CalcChangingCost([]stage.ClassificationResult{res(0, 0, stage.ChangingFlag)}))
}
