package agent

import "strings"

// parsedStep is one model response decoded from the Thought/Action/Final
// Answer text protocol.
type parsedStep struct {
	Thought     string
	Action      string
	ActionInput string
	FinalAnswer string
}

// parseStep decodes a model response. A "Final Answer:" marker wins over any
// action; the answer spans the rest of the response. A response with neither
// an action nor a final answer comes back empty and the loop treats it as a
// recoverable step failure.
func parseStep(output string) parsedStep {
	var step parsedStep

	if idx := markerIndex(output, "Final Answer:"); idx >= 0 {
		step.Thought = firstMarkerValue(output[:idx], "Thought:")
		step.FinalAnswer = strings.TrimSpace(output[idx+len("Final Answer:"):])
		return step
	}

	step.Thought = firstMarkerValue(output, "Thought:")
	step.Action = strings.Trim(firstMarkerValue(output, "Action:"), "[] ")
	step.ActionInput = strings.Trim(firstMarkerValue(output, "Action Input:"), "\"' ")
	return step
}

// markerIndex finds a marker at the start of a line.
func markerIndex(output, marker string) int {
	if strings.HasPrefix(output, marker) {
		return 0
	}
	idx := strings.Index(output, "\n"+marker)
	if idx < 0 {
		return -1
	}
	return idx + 1
}

// firstMarkerValue returns the single-line value following the marker.
func firstMarkerValue(output, marker string) string {
	idx := markerIndex(output, marker)
	if idx < 0 {
		return ""
	}
	rest := output[idx+len(marker):]
	if end := strings.Index(rest, "\n"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
