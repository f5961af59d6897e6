package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStepAction(t *testing.T) {
	out := "Thought: I should search the corpus\nAction: search_candidates\nAction Input: Python experience\n"
	step := parseStep(out)
	assert.Equal(t, "I should search the corpus", step.Thought)
	assert.Equal(t, "search_candidates", step.Action)
	assert.Equal(t, "Python experience", step.ActionInput)
	assert.Empty(t, step.FinalAnswer)
}

func TestParseStepFinalAnswer(t *testing.T) {
	out := "Thought: I can answer now\nFinal Answer: Alice has the most Python experience.\nShe also knows AWS."
	step := parseStep(out)
	assert.Equal(t, "I can answer now", step.Thought)
	assert.Empty(t, step.Action)
	assert.Equal(t, "Alice has the most Python experience.\nShe also knows AWS.", step.FinalAnswer)
}

func TestParseStepFinalAnswerWinsOverAction(t *testing.T) {
	out := "Action: search_candidates\nAction Input: x\nFinal Answer: done"
	step := parseStep(out)
	assert.Equal(t, "done", step.FinalAnswer)
	assert.Empty(t, step.Action)
}

func TestParseStepBracketsAndQuotesTrimmed(t *testing.T) {
	out := "Thought: t\nAction: [search_wikipedia]\nAction Input: \"Alan Turing\""
	step := parseStep(out)
	assert.Equal(t, "search_wikipedia", step.Action)
	assert.Equal(t, "Alan Turing", step.ActionInput)
}

func TestParseStepMalformed(t *testing.T) {
	step := parseStep("the model rambled with no markers at all")
	assert.Empty(t, step.Action)
	assert.Empty(t, step.FinalAnswer)
}

func TestParseStepMarkerMidLineIgnored(t *testing.T) {
	// Markers only count at the start of a line.
	step := parseStep("Thought: mentions the words Final Answer: casually\nAction: search_candidates\nAction Input: x")
	assert.Equal(t, "search_candidates", step.Action)
	assert.Empty(t, step.FinalAnswer)
}
