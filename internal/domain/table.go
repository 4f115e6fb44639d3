package domain

import (
	"strconv"

	"github.com/samber/lo"
)

// Fallback names used when a lookup table has no entry.
const (
	UnknownHub = "Unknown HUB"
	UnknownSub = "Unknown Sub"
)

// HubCount is the number of hub terminals an event is drawn from.
const HubCount = 3

// Table is a read-only lookup from a composite key to a display name.
type Table map[string]string

// Lookup returns the value for key, or fallback when the key is absent.
func (t Table) Lookup(key, fallback string) string {
	return lo.ValueOr(map[string]string(t), key, fallback)
}

// HubKey builds the hub table key for the n-th hub terminal (1-based).
func HubKey(n int) string {
	return "hub:" + strconv.Itoa(n)
}
