package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dense builds a domain of n items at positions 0..n-1, alternating variants
// so the mixed session-level axis is exercised too.
func dense(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		kind := KindExercise
		if i%2 == 0 {
			kind = KindBlock
		}
		items[i] = Item{Kind: kind, ID: primitive.NewObjectID(), Position: i}
	}
	return items
}

// apply plays shifts back onto the domain and returns the resulting positions
// keyed by item ID.
func apply(domain []Item, shifts []Shift) map[primitive.ObjectID]int {
	positions := make(map[primitive.ObjectID]int, len(domain))
	for _, it := range domain {
		positions[it.ID] = it.Position
	}
	for _, s := range shifts {
		positions[s.Item.ID] = s.NewPosition
	}
	return positions
}

// requireDense asserts the positions form exactly 0..len-1.
func requireDense(t *testing.T, positions map[primitive.ObjectID]int) {
	t.Helper()
	seen := make(map[int]bool, len(positions))
	for _, pos := range positions {
		require.GreaterOrEqual(t, pos, 0)
		require.Less(t, pos, len(positions))
		require.False(t, seen[pos], "duplicate position %d", pos)
		seen[pos] = true
	}
}

func TestInsertAt_Append(t *testing.T) {
	domain := dense(3)

	shifts, err := InsertAt(domain, Append(domain))
	require.NoError(t, err)
	assert.Empty(t, shifts, "appending must not touch existing members")
}

func TestInsertAt_EmptyDomain(t *testing.T) {
	shifts, err := InsertAt(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestInsertAt_Middle(t *testing.T) {
	domain := dense(4)

	shifts, err := InsertAt(domain, 1)
	require.NoError(t, err)
	require.Len(t, shifts, 3, "members at 1,2,3 shift up")

	for _, s := range shifts {
		assert.Equal(t, s.Item.Position+1, s.NewPosition)
		assert.GreaterOrEqual(t, s.Item.Position, 1)
	}
	// Highest first, safe under a unique index.
	assert.Equal(t, 3, shifts[0].Item.Position)
	assert.Equal(t, 1, shifts[2].Item.Position)
}

func TestInsertAt_Front(t *testing.T) {
	domain := dense(2)

	shifts, err := InsertAt(domain, 0)
	require.NoError(t, err)
	require.Len(t, shifts, 2)

	positions := apply(domain, shifts)
	for _, it := range domain {
		assert.Equal(t, it.Position+1, positions[it.ID])
	}
}

func TestInsertAt_OutOfRange(t *testing.T) {
	domain := dense(3)

	for _, target := range []int{-1, 4, 100} {
		shifts, err := InsertAt(domain, target)
		assert.ErrorIs(t, err, ErrInvalidPosition, "target %d", target)
		assert.Nil(t, shifts)
	}
}

func TestMove_Down(t *testing.T) {
	// Moving 2 -> 0 in a domain of 3: members at 0,1 shift to 1,2.
	domain := dense(3)

	shifts, err := Move(domain, 2, 0)
	require.NoError(t, err)
	require.Len(t, shifts, 2)

	// Increments come highest-first.
	assert.Equal(t, 1, shifts[0].Item.Position)
	assert.Equal(t, 2, shifts[0].NewPosition)
	assert.Equal(t, 0, shifts[1].Item.Position)
	assert.Equal(t, 1, shifts[1].NewPosition)
}

func TestMove_Up(t *testing.T) {
	// Moving 0 -> 2: members at 1,2 shift to 0,1; member at 3 untouched.
	domain := dense(4)

	shifts, err := Move(domain, 0, 2)
	require.NoError(t, err)
	require.Len(t, shifts, 2)

	// Decrements come lowest-first.
	assert.Equal(t, 1, shifts[0].Item.Position)
	assert.Equal(t, 0, shifts[0].NewPosition)
	assert.Equal(t, 2, shifts[1].Item.Position)
	assert.Equal(t, 1, shifts[1].NewPosition)
}

func TestMove_MemberOutsideRangeUntouched(t *testing.T) {
	domain := dense(5)

	shifts, err := Move(domain, 1, 3)
	require.NoError(t, err)

	for _, s := range shifts {
		assert.Greater(t, s.Item.Position, 1)
		assert.LessOrEqual(t, s.Item.Position, 3)
	}
}

func TestMove_SamePosition(t *testing.T) {
	domain := dense(3)

	shifts, err := Move(domain, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestMove_OutOfRange(t *testing.T) {
	domain := dense(3)

	cases := []struct{ old, new int }{
		{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5},
	}
	for _, tc := range cases {
		shifts, err := Move(domain, tc.old, tc.new)
		assert.ErrorIs(t, err, ErrInvalidPosition, "move %d -> %d", tc.old, tc.new)
		assert.Nil(t, shifts)
	}
}

func TestRemove_Middle(t *testing.T) {
	// Domain after removing the member that was at 1: survivors at 0,2,3.
	full := dense(4)
	removedPos := 1
	var remaining []Item
	for _, it := range full {
		if it.Position != removedPos {
			remaining = append(remaining, it)
		}
	}

	shifts := Remove(remaining, removedPos)
	require.Len(t, shifts, 2)

	positions := apply(remaining, shifts)
	requireDense(t, positions)
	// Lowest first.
	assert.Equal(t, 2, shifts[0].Item.Position)
	assert.Equal(t, 3, shifts[1].Item.Position)
}

func TestRemove_Last(t *testing.T) {
	full := dense(3)
	remaining := full[:2]

	shifts := Remove(remaining, 2)
	assert.Empty(t, shifts)
}

func TestDensity_AfterOperationSequence(t *testing.T) {
	// Simulate a realistic edit session and check density after every step.
	var domain []Item

	insert := func(target int) {
		shifts, err := InsertAt(domain, target)
		require.NoError(t, err)
		positions := apply(domain, shifts)
		for i := range domain {
			domain[i].Position = positions[domain[i].ID]
		}
		domain = append(domain, Item{Kind: KindExercise, ID: primitive.NewObjectID(), Position: target})
		requireDense(t, apply(domain, nil))
	}

	move := func(old, new int) {
		shifts, err := Move(domain, old, new)
		require.NoError(t, err)
		positions := apply(domain, shifts)
		for i := range domain {
			if domain[i].Position == old {
				positions[domain[i].ID] = new
			}
		}
		for i := range domain {
			domain[i].Position = positions[domain[i].ID]
		}
		requireDense(t, apply(domain, nil))
	}

	remove := func(pos int) {
		var remaining []Item
		for _, it := range domain {
			if it.Position != pos {
				remaining = append(remaining, it)
			}
		}
		shifts := Remove(remaining, pos)
		positions := apply(remaining, shifts)
		for i := range remaining {
			remaining[i].Position = positions[remaining[i].ID]
		}
		domain = remaining
		requireDense(t, apply(domain, nil))
	}

	insert(0)
	insert(1)
	insert(0)
	insert(2)
	move(3, 0)
	move(0, 2)
	remove(1)
	insert(1)
	remove(0)
	remove(2)
	require.Len(t, domain, 2)
}
