package model

// ProjectStatus is the project lifecycle enum. It has no derived side
// effects on transition.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectPaused, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// TaskStatus is the task lifecycle enum. Any status is reachable from any
// status; only the derived-field side effects per transition are enforced.
type TaskStatus string

const (
	TaskBacklog    TaskStatus = "backlog"
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskBlocked    TaskStatus = "blocked"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskBacklog, TaskTodo, TaskInProgress, TaskReview, TaskBlocked, TaskDone:
		return true
	}
	return false
}

// TaskPriority is the four-level priority enum with the explicit total
// order critical < high < medium < low.
type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

var priorityRank = map[TaskPriority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

func (p TaskPriority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank returns the position of p in the priority total order, lowest
// first for critical. Unknown priorities sort last.
func (p TaskPriority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// ActivityAction tags an activity record with the kind of change it
// describes.
type ActivityAction string

const (
	ActionProjectCreated ActivityAction = "project_created"
	ActionProjectUpdated ActivityAction = "project_updated"
	ActionTaskCreated    ActivityAction = "task_created"
	ActionTaskAssigned   ActivityAction = "task_assigned"
	ActionTaskUpdated    ActivityAction = "task_updated"

	ActionTaskBacklog    ActivityAction = "task_backlog"
	ActionTaskTodo       ActivityAction = "task_todo"
	ActionTaskInProgress ActivityAction = "task_in_progress"
	ActionTaskReview     ActivityAction = "task_review"
	ActionTaskBlocked    ActivityAction = "task_blocked"
	ActionTaskDone       ActivityAction = "task_done"
)

// statusActions maps each task status to its activity-action constant.
// A lookup table rather than string concatenation, so a new status value
// cannot silently produce an unintended action tag.
var statusActions = map[TaskStatus]ActivityAction{
	TaskBacklog:    ActionTaskBacklog,
	TaskTodo:       ActionTaskTodo,
	TaskInProgress: ActionTaskInProgress,
	TaskReview:     ActionTaskReview,
	TaskBlocked:    ActionTaskBlocked,
	TaskDone:       ActionTaskDone,
}

// ActionForStatus returns the activity action recorded when a task enters
// status. ok is false for a status outside the enum.
func ActionForStatus(s TaskStatus) (ActivityAction, bool) {
	a, ok := statusActions[s]
	return a, ok
}
