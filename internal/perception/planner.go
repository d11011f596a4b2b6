package perception

import (
	"context"
	"fmt"
	"strings"

	"organizer/internal/logging"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// Plan is a proposed multi-step run awaiting user approval.
type Plan struct {
	Steps     []types.CanonicalAction `json:"steps"`
	Summary   string                  `json:"summary"`
	ItemCount int                     `json:"itemCount"`
}

// Planner asks the model for a step-by-step plan toward a goal.
type Planner struct {
	client LLMClient
}

// NewPlanner creates a Planner over client.
func NewPlanner(client LLMClient) *Planner {
	return &Planner{client: client}
}

// Plan proposes steps for goal given the current folder listing. Nothing is
// executed.
func (p *Planner) Plan(ctx context.Context, goal, current string, listing []types.DirectoryEntry) (*Plan, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, types.InvalidArgument("plan", "goal required")
	}
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("planner: %w", types.ErrModelTransport)
	}

	response, err := p.client.Complete(ctx, []Part{TextPart(BuildPlanPrompt(goal, current, listing))})
	if err != nil {
		return nil, fmt.Errorf("plan model call failed: %w", err)
	}
	obj, err := DecodeObject(response)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Steps:     decodeSteps(obj["steps"]),
		Summary:   strings.TrimSpace(types.ExtractString(obj["summary"])),
		ItemCount: len(listing),
	}
	if plan.Steps == nil {
		plan.Steps = []types.CanonicalAction{}
	}
	logging.For(ctx, logging.CategoryPerception).Info("plan proposed",
		zap.Int("steps", len(plan.Steps)), zap.String("goal", goal))
	return plan, nil
}
