package memory

import (
	"time"

	"github.com/google/btree"
)

// expirationDegree is the B-tree node degree of the expiration index.
const expirationDegree = 32

// expiration is one (deadline, key) pair of the index.
type expiration struct {
	when time.Time
	key  string
}

func expirationLess(a, b expiration) bool {
	if !a.when.Equal(b.when) {
		return a.when.Before(b.when)
	}
	return a.key < b.key
}

// expirationIndex is an ordered set of expirations.
//
// It is not safe for concurrent use; Store guards it with its own lock so
// that the index and the entry map always change together.
type expirationIndex struct {
	tree *btree.BTreeG[expiration]
}

func newExpirationIndex() *expirationIndex {
	return &expirationIndex{
		tree: btree.NewG(expirationDegree, expirationLess),
	}
}

func (x *expirationIndex) insert(when time.Time, key string) {
	x.tree.ReplaceOrInsert(expiration{when: when, key: key})
}

func (x *expirationIndex) remove(when time.Time, key string) bool {
	_, ok := x.tree.Delete(expiration{when: when, key: key})
	return ok
}

// earliest returns the soonest deadline in the index.
func (x *expirationIndex) earliest() (time.Time, bool) {
	e, ok := x.tree.Min()
	if !ok {
		return time.Time{}, false
	}
	return e.when, true
}

// popDue removes every pair whose deadline is at or before now and
// returns them in deadline order.
func (x *expirationIndex) popDue(now time.Time) []expiration {
	var due []expiration
	for {
		e, ok := x.tree.Min()
		if !ok || e.when.After(now) {
			return due
		}
		x.tree.DeleteMin()
		due = append(due, e)
	}
}

func (x *expirationIndex) len() int {
	return x.tree.Len()
}
