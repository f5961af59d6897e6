package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"candidate-rag/internal/llm"
)

// Loop states. One invocation walks THINKING → ACTING → OBSERVING →
// (THINKING | ANSWERING) → DONE and never resumes after DONE.
type state int

const (
	stateThinking state = iota
	stateActing
	stateAnswering
	stateDone
)

var errConsumerGone = errors.New("stream consumer gone")

// Step is one completed think-act-observe iteration. Steps are appended
// only and owned by a single Run invocation.
type Step struct {
	Thought     string
	Tool        string
	Input       string
	Observation string
}

// Agent is the bounded reasoning loop over a closed tool set. Stateless
// across queries; one Run per inbound request.
type Agent struct {
	llm           llm.Generator
	tools         Registry
	maxIterations int
	stepTimeout   time.Duration
}

func New(gen llm.Generator, tools Registry, maxIterations int, stepTimeout time.Duration) *Agent {
	if maxIterations <= 0 {
		maxIterations = 1
	}
	return &Agent{llm: gen, tools: tools, maxIterations: maxIterations, stepTimeout: stepTimeout}
}

// Run answers the query, forwarding final-answer deltas to emit. emit
// returning false means the consumer is gone; the loop then stops at the
// next suspension point without issuing further model or tool calls.
// Tool failures become observations the model can re-plan from; only
// model-provider failures propagate. The iteration cap is a hard bound:
// hitting it forces a best-effort answer instead of looping on.
func (a *Agent) Run(ctx context.Context, query string, emit func(delta string) bool) error {
	steps := make([]Step, 0, a.maxIterations)
	current := stateThinking

	for iter := 0; iter < a.maxIterations && current == stateThinking; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		output, err := a.generate(ctx, thinkPrompt(query, a.tools, steps))
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				// Collaborator timeout is a recoverable step failure.
				steps = append(steps, Step{Observation: "model call timed out, try a simpler step"})
				continue
			}
			return fmt.Errorf("model call: %w", err)
		}

		parsed := parseStep(output)
		if parsed.FinalAnswer != "" {
			current = stateAnswering
			break
		}
		if parsed.Action == "" {
			steps = append(steps, Step{
				Thought:     parsed.Thought,
				Observation: "response was not in the expected format; use Thought/Action/Action Input or Final Answer",
			})
			continue
		}

		current = stateActing
		observation := a.invoke(ctx, parsed.Action, parsed.ActionInput)
		steps = append(steps, Step{
			Thought:     parsed.Thought,
			Tool:        parsed.Action,
			Input:       parsed.ActionInput,
			Observation: observation,
		})
		current = stateThinking
	}

	// Either the model declared completion or the iteration cap was hit;
	// both paths answer, the latter best-effort.
	return a.answer(ctx, query, steps, emit)
}

func (a *Agent) invoke(ctx context.Context, name, input string) string {
	tool, ok := a.tools[name]
	if !ok {
		return fmt.Sprintf("tool unavailable: no tool named %q", name)
	}

	callCtx, cancel := a.callContext(ctx)
	defer cancel()

	log.Debug().Str("tool", name).Str("input", input).Msg("Invoking tool")
	result, err := tool.Run(callCtx, input)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("Tool invocation failed")
		return fmt.Sprintf("tool unavailable: %s", err)
	}
	return result
}

func (a *Agent) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := a.callContext(ctx)
	defer cancel()
	return a.llm.Generate(callCtx, prompt)
}

func (a *Agent) answer(ctx context.Context, query string, steps []Step, emit func(delta string) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	callCtx, cancel := a.callContext(ctx)
	defer cancel()

	err := a.llm.GenerateStream(callCtx, answerPrompt(query, steps), func(chunk string) error {
		if !emit(chunk) {
			return errConsumerGone
		}
		return nil
	})
	if errors.Is(err, errConsumerGone) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("final answer generation: %w", err)
	}
	return nil
}

func (a *Agent) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.stepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.stepTimeout)
}

func thinkPrompt(query string, tools Registry, steps []Step) string {
	var b strings.Builder
	b.WriteString("You are a recruitment assistant answering questions about a corpus of candidate CVs.\n\n")
	b.WriteString("You have access to the following tools:\n")
	b.WriteString(tools.Describe())
	b.WriteString("\nUse this format:\n\n")
	b.WriteString("Thought: reason about what to do next\n")
	b.WriteString("Action: the tool to use, one of [" + strings.Join(tools.Names(), ", ") + "]\n")
	b.WriteString("Action Input: the input to the tool\n\n")
	b.WriteString("After each action you will receive an Observation. ")
	b.WriteString("When you have enough information, respond with:\n\n")
	b.WriteString("Thought: I can answer now\n")
	b.WriteString("Final Answer: the answer to the question\n\n")
	b.WriteString("Question: " + query + "\n\n")
	writeTranscript(&b, steps)
	return b.String()
}

func answerPrompt(query string, steps []Step) string {
	var b strings.Builder
	b.WriteString("You are a recruitment assistant answering questions about a corpus of candidate CVs.\n\n")
	b.WriteString("Question: " + query + "\n\n")
	if len(steps) > 0 {
		b.WriteString("Investigation transcript:\n\n")
		writeTranscript(&b, steps)
		b.WriteString("\n")
	}
	b.WriteString("Give the final answer to the question based on the transcript above. ")
	b.WriteString("If the transcript is incomplete or some lookups failed, give the best possible answer from what is available and say what is missing.\n")
	return b.String()
}

func writeTranscript(b *strings.Builder, steps []Step) {
	for _, step := range steps {
		if step.Thought != "" {
			b.WriteString("Thought: " + step.Thought + "\n")
		}
		if step.Tool != "" {
			b.WriteString("Action: " + step.Tool + "\n")
			b.WriteString("Action Input: " + step.Input + "\n")
		}
		b.WriteString("Observation: " + step.Observation + "\n")
	}
}
