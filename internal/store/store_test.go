package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablasso/todo/internal/task"
)

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func abc() []task.Task {
	return []task.Task{
		{ID: "A", Name: "Alpha"},
		{ID: "B", Name: "Bravo"},
		{ID: "C", Name: "Charlie"},
	}
}

func TestNew_StartsLoadingAndEmpty(t *testing.T) {
	s := New()

	assert.True(t, s.Loading())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Tasks())
}

func TestLoad_ReplacesCollectionAndClearsLoading(t *testing.T) {
	s := New()
	s.Add(task.Task{ID: "old"})

	s.Load(abc())

	assert.False(t, s.Loading())
	assert.Equal(t, []string{"A", "B", "C"}, ids(s.Tasks()))
}

func TestLoad_NilGivesEmptyCollection(t *testing.T) {
	s := New()
	s.Load(nil)

	assert.False(t, s.Loading())
	assert.NotNil(t, s.Tasks())
	assert.Equal(t, 0, s.Len())
}

func TestAdd_AppendsInOrder(t *testing.T) {
	s := New()
	s.Load(abc())

	s.Add(task.Task{ID: "D", Name: "Delta"})

	assert.Equal(t, []string{"A", "B", "C", "D"}, ids(s.Tasks()))
}

func TestRemove(t *testing.T) {
	s := New()
	s.Load(abc())

	s.Remove("B")
	assert.Equal(t, []string{"A", "C"}, ids(s.Tasks()))

	before := s.Version()
	s.Remove("missing")
	assert.Equal(t, []string{"A", "C"}, ids(s.Tasks()), "removing an absent id is a no-op")
	assert.Equal(t, before, s.Version(), "no-op must not count as a change")
}

func TestUpdate_MergesPatch(t *testing.T) {
	s := New()
	s.Load([]task.Task{{ID: "1", Name: "Learn X", Description: "docs", Priority: 3}})

	s.Update("1", task.SetDone(true))

	got, ok := s.Find("1")
	require.True(t, ok)
	assert.True(t, got.Done)
	assert.Equal(t, "Learn X", got.Name)
	assert.Equal(t, "docs", got.Description)
	assert.Equal(t, 3, got.Priority)
}

func TestUpdate_AbsentIDIsNoop(t *testing.T) {
	s := New()
	s.Load(abc())
	before := s.Tasks()

	s.Update("missing", task.SetDone(true))

	assert.Equal(t, before, s.Tasks())
}

func TestMutators_ReplaceCollection(t *testing.T) {
	s := New()
	s.Load(abc())

	held := s.Tasks()
	s.Update("A", task.SetDone(true))

	assert.False(t, held[0].Done, "earlier copies must not observe later mutations")
}

func TestMutators_SequenceKeepsOneEntryPerID(t *testing.T) {
	s := New()
	s.Load(nil)

	name := "renamed"
	s.Add(task.Task{ID: "1", Name: "one"})
	s.Add(task.Task{ID: "2", Name: "two"})
	s.Update("1", task.Patch{Name: &name})
	s.Remove("2")
	s.Add(task.Task{ID: "3", Name: "three"})
	s.Update("3", task.SetDone(true))
	s.Remove("4")

	got := s.Tasks()
	assert.Equal(t, []string{"1", "3"}, ids(got))
	assert.Equal(t, "renamed", got[0].Name)
	assert.True(t, got[1].Done)
	assert.Equal(t, "three", got[1].Name)
}

func TestOnChange_ReceivesCopies(t *testing.T) {
	var seen [][]string
	s := New(WithOnChange(func(tasks []task.Task) {
		seen = append(seen, ids(tasks))
	}))

	s.Load(abc())
	s.Remove("A")
	s.Remove("A")

	assert.Equal(t, [][]string{{"A", "B", "C"}, {"B", "C"}}, seen)
}

