package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type selRow struct{ ID string }

func newSel() *Selection[selRow] {
	return NewSelection(func(r selRow) string { return r.ID })
}

func TestSelection_SetIdempotent(t *testing.T) {
	t.Parallel()

	s := newSel()
	r := selRow{ID: "r1"}

	s.Set(true, r)
	s.Set(true, r)
	assert.Equal(t, 1, s.Count(), "double-add keeps exactly one copy")
	assert.True(t, s.Has(r))

	s.Set(false, r)
	assert.Zero(t, s.Count())

	// Removing an absent row is a no-op.
	s.Set(false, r)
	assert.Zero(t, s.Count())
}

func TestSelection_SetAllReplacesWholesale(t *testing.T) {
	t.Parallel()

	s := newSel()
	s.Set(true, selRow{ID: "old"})

	s.SetAll([]selRow{{ID: "a"}, {ID: "b"}})

	assert.Equal(t, 2, s.Count())
	assert.False(t, s.Has(selRow{ID: "old"}))
	assert.Equal(t, []selRow{{ID: "a"}, {ID: "b"}}, s.Rows())
}

func TestSelection_RowsKeepSelectionOrder(t *testing.T) {
	t.Parallel()

	s := newSel()
	s.Set(true, selRow{ID: "b"})
	s.Set(true, selRow{ID: "a"})
	s.Set(true, selRow{ID: "c"})
	s.Set(false, selRow{ID: "a"})

	assert.Equal(t, []selRow{{ID: "b"}, {ID: "c"}}, s.Rows())
}

func TestSelection_Clear(t *testing.T) {
	t.Parallel()

	s := newSel()
	s.SetAll([]selRow{{ID: "a"}, {ID: "b"}})
	s.Clear()

	assert.Zero(t, s.Count())
	assert.Empty(t, s.Rows())
}
