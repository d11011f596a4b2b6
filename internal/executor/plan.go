package executor

import (
	"context"
	"fmt"

	"organizer/internal/logging"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// =============================================================================
// CONFIRMATION AND MULTI-STEP RUNS
// =============================================================================

// Confirm is the confirmation boundary. It returns a copy of actions with
// requiresConfirm forced on for destructive kinds, and whether any action
// must be confirmed before it runs.
func Confirm(actions []types.CanonicalAction) ([]types.CanonicalAction, bool) {
	out := make([]types.CanonicalAction, len(actions))
	hold := false
	for i, a := range actions {
		if a.Action.Destructive() {
			a.RequiresConfirm = true
		}
		hold = hold || a.RequiresConfirm
		out[i] = a
	}
	return out, hold
}

// RunPlan executes steps in order and stops at the first failure, returning
// that error. A single step returns its own result; several steps return an
// aggregate whose Action is the last step's.
func (e *Executor) RunPlan(ctx context.Context, steps []types.CanonicalAction, current string) (*types.Result, error) {
	if len(steps) == 0 {
		return nil, types.InvalidArgument("plan", "no steps")
	}
	if len(steps) == 1 {
		return e.Execute(ctx, steps[0].Action, steps[0].Params, current)
	}

	agg := &types.Result{Success: true}
	for i, step := range steps {
		res, err := e.Execute(ctx, step.Action, step.Params, current)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		agg.Steps = append(agg.Steps, types.StepResult{Step: step, Result: res})
		agg.Action = step.Action
	}
	return agg, nil
}

// RunApproved executes every step, recording each failure on its step and
// carrying on. Success is true only when every step succeeded.
func (e *Executor) RunApproved(ctx context.Context, steps []types.CanonicalAction, current string) *types.Result {
	agg := &types.Result{Success: true, Steps: make([]types.StepResult, 0, len(steps))}
	log := logging.For(ctx, logging.CategoryExecutor)
	for i, step := range steps {
		sr := types.StepResult{Step: step}
		kind, ok := types.ParseAction(string(step.Action))
		if !ok {
			sr.Error = types.Unsupported(string(step.Action)).Error()
		} else if res, err := e.Execute(ctx, kind, step.Params, current); err != nil {
			sr.Error = err.Error()
		} else {
			sr.Result = res
		}
		if sr.Error != "" {
			agg.Success = false
			agg.Failed++
			log.Info("approved step failed", zap.Int("step", i+1), zap.String("action", string(step.Action)), zap.String("error", sr.Error))
		}
		agg.Steps = append(agg.Steps, sr)
		agg.Action = step.Action
	}
	return agg
}
