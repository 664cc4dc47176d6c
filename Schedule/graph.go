package Schedule

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"Mason/Models"
)

// Graph is an in-memory view of one project's tasks and active dependency
// edges. All traversals are iterative: dependencies form a general directed
// graph, so nothing here trusts acyclicity with unbounded recursion.
type Graph struct {
	ProjectID uint
	Tasks     map[uint]*Models.ScheduleTask
	taskIDs   []uint // ascending, for deterministic iteration

	preds map[uint][]*Models.TaskDependency // keyed by successor
	succs map[uint][]*Models.TaskDependency // keyed by predecessor
}

// BuildGraph indexes tasks and edges. Inactive edges are dropped; edges
// referencing unknown tasks are ignored (cross-project edges are out of
// scope for a single-project pass).
func BuildGraph(projectID uint, tasks []Models.ScheduleTask, deps []Models.TaskDependency) *Graph {
	g := &Graph{
		ProjectID: projectID,
		Tasks:     make(map[uint]*Models.ScheduleTask, len(tasks)),
		preds:     make(map[uint][]*Models.TaskDependency),
		succs:     make(map[uint][]*Models.TaskDependency),
	}
	for i := range tasks {
		t := &tasks[i]
		g.Tasks[t.ID] = t
		g.taskIDs = append(g.taskIDs, t.ID)
	}
	sort.Slice(g.taskIDs, func(i, j int) bool { return g.taskIDs[i] < g.taskIDs[j] })

	for i := range deps {
		d := &deps[i]
		if !d.Active {
			continue
		}
		if _, ok := g.Tasks[d.PredecessorTaskID]; !ok {
			continue
		}
		if _, ok := g.Tasks[d.SuccessorTaskID]; !ok {
			continue
		}
		g.preds[d.SuccessorTaskID] = append(g.preds[d.SuccessorTaskID], d)
		g.succs[d.PredecessorTaskID] = append(g.succs[d.PredecessorTaskID], d)
	}
	return g
}

// LoadGraph reads a project's tasks and active edges from the database.
func LoadGraph(db *gorm.DB, projectID uint) (*Graph, error) {
	var tasks []Models.ScheduleTask
	if err := db.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks for project %d: %w", projectID, err)
	}
	var deps []Models.TaskDependency
	if err := db.Where("project_id = ? AND active = ?", projectID, true).Find(&deps).Error; err != nil {
		return nil, fmt.Errorf("failed to load dependencies for project %d: %w", projectID, err)
	}
	return BuildGraph(projectID, tasks, deps), nil
}

// PredecessorsOf returns the active edges ending at the task.
func (g *Graph) PredecessorsOf(taskID uint) []*Models.TaskDependency {
	return g.preds[taskID]
}

// SuccessorsOf returns the active edges starting at the task.
func (g *Graph) SuccessorsOf(taskID uint) []*Models.TaskDependency {
	return g.succs[taskID]
}

// TopologicalOrder returns task ids with every predecessor before its
// successors (Kahn's algorithm). Ties break on ascending task id so the
// order is deterministic. Returns ErrGraphInconsistent if the active edge
// set contains a cycle, which insert-time validation should prevent.
func (g *Graph) TopologicalOrder() ([]uint, error) {
	inDegree := make(map[uint]int, len(g.Tasks))
	for _, id := range g.taskIDs {
		inDegree[id] = len(g.preds[id])
	}

	var ready []uint
	for _, id := range g.taskIDs {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]uint, 0, len(g.Tasks))
	for len(ready) > 0 {
		// Pop the smallest ready id.
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		for _, edge := range g.succs[current] {
			inDegree[edge.SuccessorTaskID]--
			if inDegree[edge.SuccessorTaskID] == 0 {
				ready = append(ready, edge.SuccessorTaskID)
			}
		}
	}

	if len(order) != len(g.Tasks) {
		return nil, fmt.Errorf("%w: project %d has a cycle among its active edges", ErrGraphInconsistent, g.ProjectID)
	}
	return order, nil
}

// CanReach reports whether `to` is reachable from `from` following active
// edges forward. BFS with a visited set.
func (g *Graph) CanReach(from, to uint) bool {
	if from == to {
		return true
	}
	visited := map[uint]bool{from: true}
	queue := []uint{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, edge := range g.succs[current] {
			next := edge.SuccessorTaskID
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// Downstream returns every task reachable from taskID (excluding itself),
// in BFS order.
func (g *Graph) Downstream(taskID uint) []uint {
	visited := map[uint]bool{taskID: true}
	queue := []uint{taskID}
	var result []uint
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, edge := range g.succs[current] {
			next := edge.SuccessorTaskID
			if visited[next] {
				continue
			}
			visited[next] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}
	return result
}
