package report

import (
	"strconv"

	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

// ChangingCostPrefix namespaces changing-cost entries in the extras block.
const ChangingCostPrefix = "stage changing cost: "

// ChangingCost is the time spent in one run of transitioning frames.
type ChangingCost struct {
	Label string  `json:"label" yaml:"label"`
	Cost  float64 `json:"cost"  yaml:"cost"`
}

// ExtraName returns the key under which the cost is stored in extras.
func (c ChangingCost) ExtraName() string {
	return ChangingCostPrefix + c.Label
}

// ExtraValue returns the cost formatted for the extras block.
func (c ChangingCost) ExtraValue() string {
	return stage.FormatSeconds(c.Cost)
}

// CalcChangingCost scans results left to right and returns one entry per run
// of ChangingFlag frames, in detection order. The cost is the timestamp delta
// between the frame just before the run and the first frame after it.
//
// A run that reaches the end of results has no closing frame and produces no
// entry. Non-monotonic timestamps yield negative costs.
func CalcChangingCost(results []stage.ClassificationResult) []ChangingCost {
	var costs []ChangingCost

	i := 0
	for i < len(results)-1 {
		cur := results[i]

		if !results[i+1].IsChanging() {
			i++

			continue
		}

		j := i + 1
		for j < len(results) && results[j].IsChanging() {
			j++
		}

		if j == len(results) {
			break
		}

		next := results[j]
		costs = append(costs, ChangingCost{
			Label: changingLabel(cur, next),
			Cost:  next.Timestamp - cur.Timestamp,
		})

		i = j
	}

	return costs
}

func changingLabel(before, after stage.ClassificationResult) string {
	return boundaryLabel(before) + " - " + boundaryLabel(after)
}

func boundaryLabel(r stage.ClassificationResult) string {
	return r.Stage + "(frame id=" + strconv.Itoa(r.FrameID) + " / time=" + stage.FormatSeconds(r.Timestamp) + ")"
}
