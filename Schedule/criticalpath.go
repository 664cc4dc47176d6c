package Schedule

import (
	"sort"

	"Mason/Models"
)

// TaskAnalysis is the per-task output of the critical path method, in
// project-relative day numbers (day 0 = project start).
type TaskAnalysis struct {
	TaskID         uint   `json:"task_id"`
	TaskNumber     int    `json:"task_number"`
	Name           string `json:"name"`
	Duration       int    `json:"duration"`
	EarliestStart  int    `json:"earliest_start"`
	EarliestFinish int    `json:"earliest_finish"`
	LatestStart    int    `json:"latest_start"`
	LatestFinish   int    `json:"latest_finish"`
	Slack          int    `json:"slack"`
	IsCritical     bool   `json:"is_critical"`
}

type CriticalPathSummary struct {
	TotalTasks      int `json:"total_tasks"`
	CriticalTasks   int `json:"critical_tasks"`
	ProjectDuration int `json:"project_duration"`
}

type CriticalPathResult struct {
	Tasks        map[uint]*TaskAnalysis `json:"tasks"`
	CriticalPath []uint                 `json:"critical_path"` // ordered by earliest start
	Summary      CriticalPathSummary    `json:"summary"`
}

// earliestStartVia computes the forward-pass constraint an edge puts on the
// successor's earliest start, mirroring requiredStart in day-number space.
// EF is exclusive (EF = ES + duration), so finish-to-start needs no +1 here.
func earliestStartVia(edge *Models.TaskDependency, pred, succ *TaskAnalysis) int {
	switch edge.DependencyType {
	case Models.DepStartToStart:
		return pred.EarliestStart + edge.LagDays
	case Models.DepFinishToFinish:
		return pred.EarliestFinish + edge.LagDays - succ.Duration
	case Models.DepStartToFinish:
		return pred.EarliestStart + edge.LagDays - succ.Duration
	default:
		return pred.EarliestFinish + edge.LagDays
	}
}

// latestFinishVia computes the backward-pass bound an outgoing edge puts on
// the predecessor's latest finish.
func latestFinishVia(edge *Models.TaskDependency, pred, succ *TaskAnalysis) int {
	switch edge.DependencyType {
	case Models.DepStartToStart:
		return succ.LatestStart - edge.LagDays + pred.Duration
	case Models.DepFinishToFinish:
		return succ.LatestFinish - edge.LagDays
	case Models.DepStartToFinish:
		return succ.LatestFinish - edge.LagDays + pred.Duration
	default:
		return succ.LatestStart - edge.LagDays
	}
}

// AnalyzeCriticalPath runs the forward and backward pass over the project
// graph and reports slack and the zero-slack chain. Read-only: the graph is
// not mutated.
func AnalyzeCriticalPath(g *Graph) (*CriticalPathResult, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	analyses := make(map[uint]*TaskAnalysis, len(g.Tasks))
	for id, task := range g.Tasks {
		duration := task.DurationDays
		if duration < 1 {
			duration = 1
		}
		analyses[id] = &TaskAnalysis{
			TaskID:     id,
			TaskNumber: task.TaskNumber,
			Name:       task.Name,
			Duration:   duration,
		}
	}

	// Forward pass.
	for _, id := range order {
		a := analyses[id]
		es := 0
		for _, edge := range g.PredecessorsOf(id) {
			pred := analyses[edge.PredecessorTaskID]
			if candidate := earliestStartVia(edge, pred, a); candidate > es {
				es = candidate
			}
		}
		a.EarliestStart = es
		a.EarliestFinish = es + a.Duration
	}

	projectFinish := 0
	for _, a := range analyses {
		if a.EarliestFinish > projectFinish {
			projectFinish = a.EarliestFinish
		}
	}

	// Backward pass in reverse topological order.
	for i := len(order) - 1; i >= 0; i-- {
		a := analyses[order[i]]
		successors := g.SuccessorsOf(order[i])
		lf := projectFinish
		for _, edge := range successors {
			succ := analyses[edge.SuccessorTaskID]
			if bound := latestFinishVia(edge, a, succ); bound < lf {
				lf = bound
			}
		}
		a.LatestFinish = lf
		a.LatestStart = lf - a.Duration
		a.Slack = a.LatestStart - a.EarliestStart
		a.IsCritical = a.Slack == 0
	}

	result := &CriticalPathResult{
		Tasks: analyses,
		Summary: CriticalPathSummary{
			TotalTasks:      len(analyses),
			ProjectDuration: projectFinish,
		},
	}
	for id, a := range analyses {
		if a.IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
			result.Summary.CriticalTasks++
		}
	}
	sort.Slice(result.CriticalPath, func(i, j int) bool {
		ai, aj := analyses[result.CriticalPath[i]], analyses[result.CriticalPath[j]]
		if ai.EarliestStart != aj.EarliestStart {
			return ai.EarliestStart < aj.EarliestStart
		}
		return ai.TaskID < aj.TaskID
	})
	return result, nil
}

// AffectedTask is one downstream task shifted by a simulated delay.
type AffectedTask struct {
	TaskID    uint   `json:"task_id"`
	Name      string `json:"name"`
	ShiftDays int    `json:"shift_days"`
}

type DelayImpactResult struct {
	TaskID           uint           `json:"task_id"`
	DelayDays        int            `json:"delay_days"`
	TaskWasCritical  bool           `json:"task_was_critical"`
	OriginalDuration int            `json:"original_duration"`
	DelayedDuration  int            `json:"delayed_duration"`
	ImpactDays       int            `json:"impact_days"`
	AffectedTasks    []AffectedTask `json:"affected_tasks"`
}

// DelayImpact simulates stretching one task's finish by delayDays and
// reports how far each downstream task shifts and what happens to the
// project duration. The simulation clones the in-memory day model, ignores
// lock and hold state ("what if", not a real move) and never touches
// persistence.
func DelayImpact(g *Graph, taskID uint, delayDays int) (*DelayImpactResult, error) {
	if _, ok := g.Tasks[taskID]; !ok {
		return nil, ErrNotFound
	}
	original, err := AnalyzeCriticalPath(g)
	if err != nil {
		return nil, err
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	// Clone the analysis with the delayed duration and rerun the forward
	// pass only; earliest dates are what downstream movement means here.
	delayed := make(map[uint]*TaskAnalysis, len(original.Tasks))
	for id, a := range original.Tasks {
		clone := *a
		if id == taskID {
			clone.Duration += delayDays
		}
		delayed[id] = &clone
	}
	for _, id := range order {
		a := delayed[id]
		es := 0
		for _, edge := range g.PredecessorsOf(id) {
			pred := delayed[edge.PredecessorTaskID]
			if candidate := earliestStartVia(edge, pred, a); candidate > es {
				es = candidate
			}
		}
		a.EarliestStart = es
		a.EarliestFinish = es + a.Duration
	}

	delayedFinish := 0
	for _, a := range delayed {
		if a.EarliestFinish > delayedFinish {
			delayedFinish = a.EarliestFinish
		}
	}

	result := &DelayImpactResult{
		TaskID:           taskID,
		DelayDays:        delayDays,
		TaskWasCritical:  original.Tasks[taskID].IsCritical,
		OriginalDuration: original.Summary.ProjectDuration,
		DelayedDuration:  delayedFinish,
		ImpactDays:       delayedFinish - original.Summary.ProjectDuration,
	}
	for _, id := range g.Downstream(taskID) {
		shift := delayed[id].EarliestStart - original.Tasks[id].EarliestStart
		if shift != 0 {
			result.AffectedTasks = append(result.AffectedTasks, AffectedTask{
				TaskID:    id,
				Name:      g.Tasks[id].Name,
				ShiftDays: shift,
			})
		}
	}
	sort.Slice(result.AffectedTasks, func(i, j int) bool {
		return result.AffectedTasks[i].TaskID < result.AffectedTasks[j].TaskID
	})
	return result, nil
}
