// Package profession models trainable skills and their passive task loop.
package profession

import (
	"github.com/rickpersak/idle-rpg/internal/loot"
	"github.com/rickpersak/idle-rpg/internal/progression"
)

// TickMillis is the simulation step the tick loop advances by.
const TickMillis = 100

// SkillTask is one trainable activity within a profession.
type SkillTask struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Description      string `json:"description" yaml:"description"`
	RequiredLevel    int    `json:"requiredLevel" yaml:"required_level"`
	Experience       int    `json:"experience" yaml:"experience"`
	TimeToComplete   int    `json:"timeToComplete" yaml:"time_to_complete_ms"`
	ResourceID       string `json:"resourceId" yaml:"resource_id"`
	ResourceQuantity int64  `json:"resourceQuantity" yaml:"resource_quantity"`
}

// Profession is one skill track: level, experience, and the task being
// worked on. ActiveTaskIndex is nil when the profession is idle.
type Profession struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Level           int         `json:"level"`
	CurrentXP       int         `json:"currentXP"`
	XPToNextLevel   int         `json:"xpToNextLevel"`
	ActiveTaskIndex *int        `json:"activeTaskIndex"`
	IsPaused        bool        `json:"isPaused"`
	TaskProgress    int         `json:"taskProgress"`
	Tasks           []SkillTask `json:"tasks"`
}

// New returns a level-1 profession with no active task.
func New(id, name string, tasks []SkillTask) Profession {
	return Profession{
		ID:            id,
		Name:          name,
		Level:         1,
		XPToNextLevel: progression.XPForLevel(1),
		Tasks:         tasks,
	}
}

// Clone deep-copies a profession.
func (p Profession) Clone() Profession {
	cp := p
	if p.ActiveTaskIndex != nil {
		idx := *p.ActiveTaskIndex
		cp.ActiveTaskIndex = &idx
	}
	cp.Tasks = append([]SkillTask(nil), p.Tasks...)
	return cp
}

// ActiveTask returns the task the profession is working on, if any.
func (p Profession) ActiveTask() (SkillTask, bool) {
	if p.ActiveTaskIndex == nil || *p.ActiveTaskIndex < 0 || *p.ActiveTaskIndex >= len(p.Tasks) {
		return SkillTask{}, false
	}
	return p.Tasks[*p.ActiveTaskIndex], true
}

// StepResult is the outcome of advancing one profession by a time delta.
type StepResult struct {
	Profession Profession
	Loot       *loot.Gain
	Changed    bool
}

// Step advances a profession by deltaMillis of elapsed time. Idle or paused
// professions are returned unchanged so paused progress is kept. A dangling
// task index, or a task the profession no longer qualifies for, clears the
// active task without awarding anything. Long deltas complete multiple task
// cycles at once, each awarding experience and loot; level-ups cascade while
// the experience pool covers successive thresholds.
func Step(p Profession, deltaMillis int) StepResult {
	if p.ActiveTaskIndex == nil || p.IsPaused {
		return StepResult{Profession: p}
	}

	next := p.Clone()

	task, ok := next.ActiveTask()
	if !ok || next.Level < task.RequiredLevel {
		next.ActiveTaskIndex = nil
		next.IsPaused = false
		next.TaskProgress = 0
		return StepResult{Profession: next, Changed: true}
	}

	progress := next.TaskProgress + deltaMillis
	duration := task.TimeToComplete
	if duration < 1 {
		duration = 1
	}
	completions := progress / duration
	next.TaskProgress = progress % duration
	if completions == 0 {
		return StepResult{Profession: next, Changed: true}
	}

	for i := 0; i < completions; i++ {
		next.CurrentXP += task.Experience
		for next.CurrentXP >= next.XPToNextLevel {
			next.CurrentXP -= next.XPToNextLevel
			next.Level++
			next.XPToNextLevel = progression.XPForLevel(next.Level)
		}
	}

	gain := &loot.Gain{ID: task.ResourceID, Quantity: task.ResourceQuantity * int64(completions)}
	return StepResult{Profession: next, Loot: gain, Changed: true}
}
