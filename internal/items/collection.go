package items

import "strings"

// FindByID returns the index of the item with the given instance ID, or -1.
func FindByID(items []Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// RemoveByID removes an item by instance ID.
// Returns the removed item and true if found.
func RemoveByID(items *[]Item, id string) (Item, bool) {
	i := FindByID(*items, id)
	if i < 0 {
		return Item{}, false
	}
	removed := (*items)[i]
	*items = append((*items)[:i], (*items)[i+1:]...)
	return removed, true
}

// FindByName searches for an item using partial matching (case-insensitive).
// Exact matches win over partial ones.
func FindByName(items []Item, partial string) (Item, bool) {
	partial = strings.ToLower(partial)

	for _, item := range items {
		if strings.EqualFold(item.Name, partial) {
			return item, true
		}
	}
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), partial) {
			return item, true
		}
	}
	return Item{}, false
}
