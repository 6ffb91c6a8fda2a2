package report

// Payload is everything a Renderer needs for one document. It is a snapshot:
// later changes to the Reporter do not affect it.
type Payload struct {
	Links         []string
	Thumbnails    []Thumbnail
	Extras        []Extra
	ChangingCosts []ChangingCost
	Timeline      StageTimeline
	Durations     StageDurations

	// Similarity is nil when no cut result was supplied.
	Similarity *SimilarityTrend
}
