package decode

const (
	missingTopicsErr = "log has no topics to match against"
	topicMismatchErr = "log topic does not match event id; expected %s, got %s"
	topicCountErr    = "expected %d indexed topics for event %s, got %d"
	unpackErr        = "could not unpack log data for event %s: %w"
	parseTopicsErr   = "could not parse indexed topics for event %s: %w"
)
