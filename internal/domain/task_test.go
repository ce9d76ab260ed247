package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMerge_KeepsFirstOccurrence(t *testing.T) {
	a := []Task{{ID: "T1", Title: "first"}, {ID: "T2"}}
	b := []Task{{ID: "T3"}, {ID: "T1", Title: "second"}}

	merged := Merge(a, nil, b)

	assert.Equal(t, []string{"T1", "T2", "T3"}, merged.IDs())
	assert.Equal(t, "first", merged[0].Title)
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge()

	assert.NotNil(t, merged)
	assert.Equal(t, 0, merged.Len())
}

func TestModalState_Phase(t *testing.T) {
	pending := ModalState{Tasks: DiscoveryResult{{ID: "T1"}}}
	clear := ModalState{}
	closed := ModalState{Closed: true}

	assert.Equal(t, PhaseVisiblePending, pending.Phase())
	assert.False(t, pending.CanClose())
	assert.Equal(t, PhaseVisibleClear, clear.Phase())
	assert.True(t, clear.CanClose())
	assert.Equal(t, PhaseHidden, closed.Phase())
}

func TestModalState_CloneIsIndependent(t *testing.T) {
	s := ModalState{Tasks: DiscoveryResult{{ID: "T1"}}, LastRefreshedAt: time.Now()}

	c := s.Clone()
	c.Tasks[0].ID = "changed"

	assert.Equal(t, "T1", s.Tasks[0].ID)
}
