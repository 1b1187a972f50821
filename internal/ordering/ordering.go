// Package ordering computes the position reassignments that keep an ordering
// domain dense (positions exactly 0..len-1, no duplicates, no gaps) across
// inserts, moves and removals.
//
// A domain is a snapshot of sibling items sharing one position axis: either
// the session-level axis (blocks and free exercises mixed) or the exercises
// of a single block. The algorithms only look at positions and are agnostic
// to what kind of entity each item is; the Kind tag travels along so callers
// know which store to write each reassignment back to.
//
// Nothing here persists anything. Callers load the snapshot, run one
// operation, and apply the returned shifts plus the target entity themselves,
// all-or-nothing.
package ordering

import (
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidPosition is returned when a target position falls outside the
// valid range for the operation. It is reported before any shift is computed.
var ErrInvalidPosition = errors.New("position out of range for ordering domain")

// Kind tags which entity variant a domain item refers to.
type Kind string

const (
	KindBlock    Kind = "block"
	KindExercise Kind = "exercise"
)

// Item is one member of an ordering domain.
type Item struct {
	Kind     Kind
	ID       primitive.ObjectID
	Position int
}

// Shift moves one existing member to NewPosition.
type Shift struct {
	Item        Item
	NewPosition int
}

// Append is the position an item receives when the caller gives no explicit
// target: the current end of the domain.
func Append(domain []Item) int { return len(domain) }

// InsertAt makes room at target for a new member: every member at or above
// target moves up by one. Valid targets are 0..len(domain), inclusive; the
// upper bound is an append and shifts nothing.
//
// Shifts come back ordered highest position first so they can be applied one
// at a time without two members ever holding the same position.
func InsertAt(domain []Item, target int) ([]Shift, error) {
	if target < 0 || target > len(domain) {
		return nil, ErrInvalidPosition
	}
	var shifts []Shift
	for _, it := range domain {
		if it.Position >= target {
			shifts = append(shifts, Shift{Item: it, NewPosition: it.Position + 1})
		}
	}
	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].Item.Position > shifts[j].Item.Position
	})
	return shifts, nil
}

// Move relocates the member currently at old to new. Members strictly between
// the two positions slide one step toward the vacated slot; everything
// outside [min(old,new), max(old,new)] is untouched. The moved member itself
// is part of the domain but never appears in the result; the caller assigns
// it new directly.
//
// Both positions must be existing indices, 0..len(domain)-1. Moving to the
// current position is a no-op.
func Move(domain []Item, old, new int) ([]Shift, error) {
	n := len(domain)
	if old < 0 || old >= n || new < 0 || new >= n {
		return nil, ErrInvalidPosition
	}
	if old == new {
		return nil, nil
	}
	var shifts []Shift
	for _, it := range domain {
		pos := it.Position
		switch {
		case old < new && old < pos && pos <= new:
			shifts = append(shifts, Shift{Item: it, NewPosition: pos - 1})
		case new < old && new <= pos && pos < old:
			shifts = append(shifts, Shift{Item: it, NewPosition: pos + 1})
		}
	}
	// Decrements lowest-first, increments highest-first, so a partially
	// applied pass leaves at most one transient duplicate (the moved member's
	// old slot) rather than a cascade of them.
	asc := old < new
	sort.Slice(shifts, func(i, j int) bool {
		if asc {
			return shifts[i].Item.Position < shifts[j].Item.Position
		}
		return shifts[i].Item.Position > shifts[j].Item.Position
	})
	return shifts, nil
}

// Remove compacts the domain after the member at pos has been dropped:
// every remaining member above pos moves down by one. The snapshot passed in
// is the domain without the removed member.
//
// Shifts come back lowest position first, again collision-free when applied
// in order.
func Remove(domain []Item, pos int) []Shift {
	var shifts []Shift
	for _, it := range domain {
		if it.Position > pos {
			shifts = append(shifts, Shift{Item: it, NewPosition: it.Position - 1})
		}
	}
	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].Item.Position < shifts[j].Item.Position
	})
	return shifts
}
