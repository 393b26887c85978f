package services

import (
	"testing"

	"github.com/The-Birdheads/life-os/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func habit(id string, hidden bool) models.Task {
	return models.Task{ID: id, TaskType: models.TaskTypeHabit, IsActive: true, IsHidden: hidden, Priority: 3, Volume: 5}
}

func oneoff(id string, hidden bool) models.Task {
	return models.Task{ID: id, TaskType: models.TaskTypeOneoff, IsActive: true, IsHidden: hidden, Priority: 3, Volume: 5}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestVisibleHabits_NonHiddenAlwaysShown(t *testing.T) {
	h := habit("h1", false)
	none := map[string]bool{}
	all := map[string]bool{"h1": true}

	// Visible regardless of completion history.
	assert.Contains(t, ids(VisibleHabits([]models.Task{h}, none, none)), "h1")
	assert.Contains(t, ids(VisibleHabits([]models.Task{h}, all, all)), "h1")
	assert.Contains(t, ids(VisibleHabits([]models.Task{h}, none, all)), "h1")
}

func TestVisibleHabits_HiddenNeedsHistory(t *testing.T) {
	h := habit("h1", true)
	none := map[string]bool{}
	has := map[string]bool{"h1": true}

	assert.Empty(t, VisibleHabits([]models.Task{h}, none, none))
	assert.Contains(t, ids(VisibleHabits([]models.Task{h}, has, none)), "h1")
	assert.Contains(t, ids(VisibleHabits([]models.Task{h}, none, has)), "h1")
}

func TestVisibleHabits_SkipsInactiveAndOneoffs(t *testing.T) {
	archived := habit("h1", false)
	archived.IsActive = false
	tasks := []models.Task{archived, oneoff("o1", false)}

	assert.Empty(t, VisibleHabits(tasks, nil, nil))
}

func TestVisibleOneoffs_Suppression(t *testing.T) {
	o := oneoff("o1", false)
	none := map[string]bool{}
	has := map[string]bool{"o1": true}

	// Completed yesterday but not today: suppressed.
	assert.Empty(t, VisibleOneoffs([]models.Task{o}, none, has))
	// Additionally completed today: shown.
	assert.Contains(t, ids(VisibleOneoffs([]models.Task{o}, has, has)), "o1")
	// Never completed: shown.
	assert.Contains(t, ids(VisibleOneoffs([]models.Task{o}, none, none)), "o1")
}

func TestVisibleOneoffs_Hidden(t *testing.T) {
	o := oneoff("o1", true)
	none := map[string]bool{}
	has := map[string]bool{"o1": true}

	// Hidden and checked today: still on screen.
	assert.Contains(t, ids(VisibleOneoffs([]models.Task{o}, has, has)), "o1")
	// Hidden otherwise: gone.
	assert.Empty(t, VisibleOneoffs([]models.Task{o}, none, none))
	assert.Empty(t, VisibleOneoffs([]models.Task{o}, none, has))
}

func TestRegisterTasks_Partition(t *testing.T) {
	tasks := []models.Task{
		habit("h-shown", false),
		habit("h-hidden", true),
		oneoff("o-open", false),
		oneoff("o-used", false),
		oneoff("o-hidden", true),
	}
	doneAny := map[string]bool{"o-used": true}

	shownHabits := RegisterTasks(tasks, models.TaskTypeHabit, TabShown, doneAny)
	assert.Equal(t, []string{"h-shown"}, ids(shownHabits))

	hiddenHabits := RegisterTasks(tasks, models.TaskTypeHabit, TabHidden, doneAny)
	assert.Equal(t, []string{"h-hidden"}, ids(hiddenHabits))

	// Used-up oneoff leaves the shown worklist.
	shownOneoffs := RegisterTasks(tasks, models.TaskTypeOneoff, TabShown, doneAny)
	assert.Equal(t, []string{"o-open"}, ids(shownOneoffs))

	hiddenOneoffs := RegisterTasks(tasks, models.TaskTypeOneoff, TabHidden, doneAny)
	assert.Equal(t, []string{"o-hidden"}, ids(hiddenOneoffs))
}

// A non-hidden oneoff is in the register "shown" list exactly when the
// record view would not suppress it for a fresh day.
func TestRegisterRecordConsistency(t *testing.T) {
	cases := []struct {
		name    string
		doneAny bool
	}{
		{"never-completed", false},
		{"completed-some-day", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := oneoff("o1", false)
			doneAny := map[string]bool{}
			if tc.doneAny {
				doneAny["o1"] = true
			}
			noneToday := map[string]bool{}

			inRegister := len(RegisterTasks([]models.Task{o}, models.TaskTypeOneoff, TabShown, doneAny)) == 1
			inRecord := len(VisibleOneoffs([]models.Task{o}, noneToday, doneAny)) == 1

			assert.Equal(t, inRecord, inRegister)
		})
	}
}

func TestSortRecordTasks_Order(t *testing.T) {
	a := models.Task{ID: "A", Priority: 5, Volume: 3}
	b := models.Task{ID: "B", Priority: 5, Volume: 1}
	c := models.Task{ID: "C", Priority: 2, Volume: 1}
	done := map[string]bool{"C": true}

	got := SortRecordTasks([]models.Task{a, b, c}, done)
	assert.Equal(t, []string{"B", "A", "C"}, ids(got))
}

func TestSortRecordTasks_IDTiebreakNewestFirst(t *testing.T) {
	a := models.Task{ID: "2024-old", Priority: 3, Volume: 5}
	b := models.Task{ID: "2025-new", Priority: 3, Volume: 5}

	got := SortRecordTasks([]models.Task{a, b}, nil)
	assert.Equal(t, []string{"2025-new", "2024-old"}, ids(got))
}

func TestSortRecordTasks_ZeroValuesSortLow(t *testing.T) {
	complete := models.Task{ID: "a", Priority: 1, Volume: 1}
	malformed := models.Task{ID: "b"} // priority/volume missing

	got := SortRecordTasks([]models.Task{malformed, complete}, nil)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestSortRecordTasks_DoesNotMutateInput(t *testing.T) {
	in := []models.Task{
		{ID: "z", Priority: 1},
		{ID: "a", Priority: 5},
	}
	_ = SortRecordTasks(in, nil)
	assert.Equal(t, "z", in[0].ID)
}

func TestRegisterActions_Partition(t *testing.T) {
	actions := []models.Action{
		{ID: "a1", IsHidden: false},
		{ID: "a2", IsHidden: true},
	}
	shown := RegisterActions(actions, TabShown)
	require.Len(t, shown, 1)
	assert.Equal(t, "a1", shown[0].ID)

	hidden := RegisterActions(actions, TabHidden)
	require.Len(t, hidden, 1)
	assert.Equal(t, "a2", hidden[0].ID)
}

func TestActiveActions(t *testing.T) {
	actions := []models.Action{
		{ID: "ok", IsActive: true, IsHidden: false},
		{ID: "archived", IsActive: false, IsHidden: false},
		{ID: "hidden", IsActive: true, IsHidden: true},
	}
	got := ActiveActions(actions)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}

func TestDoneTaskIDSet(t *testing.T) {
	entries := []models.TaskEntry{
		{TaskID: "t1", Status: models.StatusDone},
		{TaskID: "t2", Status: models.StatusTodo},
		{TaskID: "t3", Status: models.StatusDoing},
		{TaskID: "t4", Status: models.StatusDone},
	}
	set := DoneTaskIDSet(entries)
	assert.Equal(t, map[string]bool{"t1": true, "t4": true}, set)
}
