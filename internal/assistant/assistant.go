// Package assistant turns a solver Report into a short natural-language
// explanation. It mirrors the teacher's handlers.smartOptimize shape
// exactly: an optional AI call that degrades to a deterministic fallback on
// any failure, never a hard error back to the caller.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/salsa-engine/salsa/internal/model"
)

// Assistant optionally explains a Report through an OpenAI-compatible
// chat-completion API.
type Assistant struct {
	client *openai.Client
	model  string
}

// New returns an Assistant backed by the given API key and model name. If
// apiKey is empty, ExplainReport always falls back to the deterministic
// summary, exactly like the teacher's smartOptimize does when no key is
// configured.
func New(apiKey, modelName string) *Assistant {
	if apiKey == "" {
		return &Assistant{}
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &Assistant{client: openai.NewClient(apiKey), model: modelName}
}

// ExplainReport returns a short, human-readable explanation of the report.
// It never returns an error: any AI failure silently falls back to
// deterministicSummary, the same fallback behavior the teacher's
// OptimizeVacations handler applies when smartOptimize fails.
func (a *Assistant) ExplainReport(r model.Report) string {
	if a.client == nil {
		return deterministicSummary(r)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: explainPrompt(r)},
		},
		Temperature: 0.3,
	})
	if err != nil || len(resp.Choices) == 0 {
		return deterministicSummary(r)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

func explainPrompt(r model.Report) string {
	var sb strings.Builder
	sb.WriteString("You are explaining a workforce shift-scheduling solver's result to a scheduling manager.\n")
	fmt.Fprintf(&sb, "Status: %s\nObjective value: %.1f (lower is better)\nWall time: %s\n", r.Status, r.ObjectiveValue, r.WallTime)
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "%d data warnings were raised during preparation.\n", len(r.Warnings))
	}
	sb.WriteString("In two or three sentences, summarize the solve outcome and whether the schedule looks reliable.\n")
	return sb.String()
}

// deterministicSummary is the no-network fallback, built only from fields
// already on the Report.
func deterministicSummary(r model.Report) string {
	var sb strings.Builder
	switch r.Status {
	case "OPTIMAL":
		sb.WriteString("The solver found a provably optimal schedule.")
	case "FEASIBLE":
		sb.WriteString("The solver found a feasible schedule before its time budget expired; it may not be optimal.")
	default:
		fmt.Fprintf(&sb, "The solver returned status %s.", r.Status)
	}
	fmt.Fprintf(&sb, " Objective value %.1f, solved in %s.", r.ObjectiveValue, r.WallTime)
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, " %d input warnings were recorded during preparation.", len(r.Warnings))
	}
	return sb.String()
}
