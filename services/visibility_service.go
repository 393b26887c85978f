package services

import (
	"sort"
	"strings"

	"github.com/The-Birdheads/life-os/models"
)

// Record-view rules. doneToday is the done set for the selected day,
// doneAnyDay is the all-time done set. Hidden items only resurface when
// they carry completion history worth showing.

// ShowHabitInRecord: a visible habit always shows; a hidden habit shows
// only as historical record, i.e. when it was completed today or on any
// past day.
func ShowHabitInRecord(t models.Task, doneToday, doneAnyDay map[string]bool) bool {
	if !t.IsHidden {
		return true
	}
	return doneToday[t.ID] || doneAnyDay[t.ID]
}

// ShowOneoffInRecord: a one-off is used up once completed. Visible but
// completed on some other day - suppress. Hidden - only show while it is
// checked today, so an archive right after checking does not make the
// row vanish mid-edit.
func ShowOneoffInRecord(t models.Task, doneToday, doneAnyDay map[string]bool) bool {
	if !t.IsHidden {
		if !doneToday[t.ID] && doneAnyDay[t.ID] {
			return false
		}
		return true
	}
	return doneToday[t.ID]
}

// VisibleHabits filters the catalog down to active habits the record view
// should render for the selected day.
func VisibleHabits(tasks []models.Task, doneToday, doneAnyDay map[string]bool) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.TaskType != models.TaskTypeHabit || !t.IsActive {
			continue
		}
		if ShowHabitInRecord(t, doneToday, doneAnyDay) {
			out = append(out, t)
		}
	}
	return out
}

// VisibleOneoffs filters the catalog down to active one-offs the record
// view should render for the selected day.
func VisibleOneoffs(tasks []models.Task, doneToday, doneAnyDay map[string]bool) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.TaskType != models.TaskTypeOneoff || !t.IsActive {
			continue
		}
		if ShowOneoffInRecord(t, doneToday, doneAnyDay) {
			out = append(out, t)
		}
	}
	return out
}

const (
	TabShown  = "shown"
	TabHidden = "hidden"
)

// RegisterTasks partitions the management view by the hidden flag. The
// shown tab additionally drops one-offs with any completion history so a
// used-up item leaves the active worklist, matching the record view.
func RegisterTasks(tasks []models.Task, taskType, tab string, doneAnyDay map[string]bool) []models.Task {
	hidden := tab == TabHidden
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.TaskType != taskType || t.IsHidden != hidden {
			continue
		}
		if !hidden && t.TaskType == models.TaskTypeOneoff && doneAnyDay[t.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// RegisterActions partitions actions by the hidden flag.
func RegisterActions(actions []models.Action, tab string) []models.Action {
	hidden := tab == TabHidden
	out := make([]models.Action, 0, len(actions))
	for _, a := range actions {
		if a.IsHidden == hidden {
			out = append(out, a)
		}
	}
	return out
}

// CompareRecordTasks orders the record list: unchecked before checked,
// then priority high to low, then volume low to high (smaller items
// surface first within a tier), then newer id first. Zero-valued
// priority/volume from malformed rows just sorts at the bottom of its
// key rather than erroring.
func CompareRecordTasks(a, b models.Task, doneToday map[string]bool) int {
	ac, bc := 0, 0
	if doneToday[a.ID] {
		ac = 1
	}
	if doneToday[b.ID] {
		bc = 1
	}
	if ac != bc {
		return ac - bc
	}
	if a.Priority != b.Priority {
		return b.Priority - a.Priority
	}
	if a.Volume != b.Volume {
		return a.Volume - b.Volume
	}
	return strings.Compare(b.ID, a.ID)
}

// SortRecordTasks returns a sorted copy; the input slice is left alone.
func SortRecordTasks(tasks []models.Task, doneToday map[string]bool) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareRecordTasks(out[i], out[j], doneToday) < 0
	})
	return out
}

// ActiveActions lists actions offered by the record view's log form.
func ActiveActions(actions []models.Action) []models.Action {
	out := make([]models.Action, 0, len(actions))
	for _, a := range actions {
		if a.IsActive && !a.IsHidden {
			out = append(out, a)
		}
	}
	return out
}

// DoneTaskIDSet derives the done set from raw entries. Sets are always
// recomputed from rows, never kept as long-lived state.
func DoneTaskIDSet(entries []models.TaskEntry) map[string]bool {
	set := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Status == models.StatusDone {
			set[e.TaskID] = true
		}
	}
	return set
}
