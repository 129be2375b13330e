package quest

import "github.com/GFrenk016/secondavita-core/internal/engineerr"

// Refresh surfaces the read-only `available` state for a not_started
// quest whose prerequisites currently hold, without otherwise mutating
// it — Start still evaluates prerequisites itself and accepts either
// not_started or available.
func Refresh(q *Quest, env Env) {
	switch q.CurrentState {
	case NotStarted:
		if CheckAll(q.Prerequisites, env) {
			q.CurrentState = Available
		}
	case Available:
		if !CheckAll(q.Prerequisites, env) {
			q.CurrentState = NotStarted
		}
	}
}

// CanStart reports whether Start would succeed.
func CanStart(q *Quest, env Env) bool {
	if q.CurrentState != NotStarted && q.CurrentState != Available {
		return false
	}
	return CheckAll(q.Prerequisites, env)
}

// Start transitions not_started/available -> in_progress (or blocked if
// the first step's enter_conditions don't hold).
func Start(q *Quest, env Env, sink Sink) bool {
	if !CanStart(q, env) {
		return false
	}
	q.CurrentState = InProgress
	q.CurrentStepIndex = 0
	step, ok := q.CurrentStep()
	if !ok {
		return true
	}
	if CheckAll(step.EnterConditions, env) {
		applyFlags(sink.Flags, step.OnEnterFlags)
	} else {
		q.CurrentState = Blocked
	}
	return true
}

// CanAdvance reports whether Advance would succeed.
func CanAdvance(q *Quest, env Env) bool {
	if q.CurrentState != InProgress {
		return false
	}
	step, ok := q.CurrentStep()
	if !ok {
		return false
	}
	return CheckAll(step.CompleteConditions, env)
}

// Advance completes the current step and either moves to the next step,
// completes the quest, or blocks on the next step's enter_conditions.
func Advance(q *Quest, env Env, sink Sink) bool {
	if !CanAdvance(q, env) {
		return false
	}
	step, _ := q.CurrentStep()
	applyFlags(sink.Flags, step.OnCompleteFlags)
	q.CurrentStepIndex++

	if q.CurrentStepIndex >= len(q.Steps) {
		q.CurrentState = Completed
		q.RewardsOnComplete.Apply(sink)
		return true
	}
	next, ok := q.CurrentStep()
	if !ok {
		return true
	}
	if CheckAll(next.EnterConditions, env) {
		applyFlags(sink.Flags, next.OnEnterFlags)
	} else {
		q.CurrentState = Blocked
	}
	return true
}

// FailIfNeeded transitions any active quest to failed if a fail_condition
// holds, applying rewards_on_fail.
func FailIfNeeded(q *Quest, env Env, sink Sink) bool {
	switch q.CurrentState {
	case Completed, Failed, Abandoned:
		return false
	}
	for i := range q.FailConditions {
		if q.FailConditions[i].Check(env) {
			q.CurrentState = Failed
			q.RewardsOnFail.Apply(sink)
			return true
		}
	}
	return false
}

// UnblockIfPossible transitions blocked -> in_progress once the current
// step's enter_conditions hold.
func UnblockIfPossible(q *Quest, env Env, sink Sink) bool {
	if q.CurrentState != Blocked {
		return false
	}
	step, ok := q.CurrentStep()
	if !ok {
		return false
	}
	if !CheckAll(step.EnterConditions, env) {
		return false
	}
	q.CurrentState = InProgress
	applyFlags(sink.Flags, step.OnEnterFlags)
	return true
}

// Abandon marks a side quest abandoned. Main quests cannot be abandoned, nor
// can a quest that hasn't actually been started (not_started/available).
func Abandon(q *Quest) error {
	if q.Priority != PrioritySide {
		return engineerr.New(engineerr.PreconditionFailed, "main quests cannot be abandoned")
	}
	switch q.CurrentState {
	case InProgress, Blocked:
		q.CurrentState = Abandoned
		return nil
	default:
		return engineerr.New(engineerr.ConflictState, "quest is not active")
	}
}

// TickResult is one human-readable message produced by a Tick pass.
type TickResult struct {
	QuestID string
	Message string
}

// Tick processes every quest in the spec's fixed order: fail_if_needed,
// then unblock_if_possible when blocked, then attempt advance when
// in_progress (§4.4.6).
func Tick(quests []*Quest, env Env, sink Sink) []TickResult {
	var results []TickResult
	for _, q := range quests {
		if FailIfNeeded(q, env, sink) {
			results = append(results, TickResult{QuestID: q.ID, Message: q.Title + " has failed."})
			continue
		}
		if q.CurrentState == Blocked {
			UnblockIfPossible(q, env, sink)
		}
		if q.CurrentState == InProgress {
			beforeIndex := q.CurrentStepIndex
			if Advance(q, env, sink) {
				switch {
				case q.CurrentState == Completed:
					results = append(results, TickResult{QuestID: q.ID, Message: q.Title + " is complete."})
				case q.CurrentStepIndex != beforeIndex:
					results = append(results, TickResult{QuestID: q.ID, Message: q.Title + ": step advanced."})
				}
			}
		}
	}
	return results
}
