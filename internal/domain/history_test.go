package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNoteAppendsTaggedEntry(t *testing.T) {
	c := newTestCase(CaseStatusScheduled)
	now := c.CreatedAt.Add(3 * time.Hour)

	updated := AddNote(c, "client asked to confirm by phone", "Agent Smith", now)

	require.Len(t, updated.History, 2)
	note := updated.History[1]
	assert.Equal(t, EventNote, note.Kind)
	assert.True(t, note.IsNote())
	assert.Equal(t, "client asked to confirm by phone", note.Action)
	assert.Equal(t, "Agent Smith", note.Actor)
	assert.Equal(t, ActorTypeAgent, note.ActorType)
	assert.Equal(t, now, updated.UpdatedAt)

	// prior entries untouched, status untouched
	assert.Equal(t, c.History[0], updated.History[0])
	assert.Equal(t, c.Status, updated.Status)
}

func TestAddNoteDoesNotAliasOriginalHistory(t *testing.T) {
	c := newTestCase(CaseStatusNew)
	before := len(c.History)

	first := AddNote(c, "first", "Agent", c.CreatedAt.Add(time.Hour))
	second := AddNote(c, "second", "Agent", c.CreatedAt.Add(2*time.Hour))

	assert.Len(t, c.History, before, "input case must be unchanged")
	assert.Equal(t, "first", first.History[len(first.History)-1].Action)
	assert.Equal(t, "second", second.History[len(second.History)-1].Action)
}

func TestFirstEntryOfKindReturnsEarliest(t *testing.T) {
	base := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	history := []HistoryEntry{
		{Kind: EventRegistered, CreatedAt: base},
		{Kind: EventScheduled, CreatedAt: base.Add(1 * time.Hour)},
		{Kind: EventScheduled, CreatedAt: base.Add(5 * time.Hour)},
	}

	entry, ok := FirstEntryOfKind(history, EventScheduled)
	require.True(t, ok)
	assert.Equal(t, base.Add(1*time.Hour), entry.CreatedAt)

	_, ok = FirstEntryOfKind(history, EventClosed)
	assert.False(t, ok)
}
