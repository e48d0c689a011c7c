package order

import (
	"sync"

	"main/internal/model"
)

// PendingTable tracks orders currently in flight, keyed by order id. It
// exists for presence tracking only; iteration order is meaningless.
type PendingTable struct {
	mu     sync.RWMutex
	orders map[string]model.Order
}

// NewPendingTable allocates an empty table.
func NewPendingTable() *PendingTable {
	return &PendingTable{orders: make(map[string]model.Order)}
}

// Insert adds the order and reports whether the id was free. A duplicate id
// while the first is still in flight leaves the table untouched.
func (t *PendingTable) Insert(ord model.Order) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.orders[ord.ID]; ok {
		return false
	}
	t.orders[ord.ID] = ord
	return true
}

// Remove deletes the entry and reports whether it was present.
func (t *PendingTable) Remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.orders[id]; !ok {
		return false
	}
	delete(t.orders, id)
	return true
}

// Has reports whether the id is in flight.
func (t *PendingTable) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.orders[id]
	return ok
}

// Size is a gauge of outstanding load.
func (t *PendingTable) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.orders)
}
