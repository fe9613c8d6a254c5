package interaction

import "sort"

// MenuItem is one entry in a context menu. Action runs against the
// editor when the item is invoked; Disabled items render but never run.
type MenuItem struct {
	ID       string
	Label    string
	Disabled bool
	Action   func(ed *Editor)
}

// MenuProvider contributes items for a context menu opened on the given
// target node (empty for the canvas) with the given selection.
type MenuProvider interface {
	MenuItems(targetID string, selection []string) []MenuItem
}

// mergeMenuItems collects items from every provider and sorts them
// alphabetically by label so the menu is stable regardless of provider
// registration order.
func mergeMenuItems(providers []MenuProvider, targetID string, selection []string) []MenuItem {
	var items []MenuItem
	for _, p := range providers {
		items = append(items, p.MenuItems(targetID, selection)...)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Label < items[j].Label
	})
	return items
}

// EditMenuProvider contributes the basic edit actions.
type EditMenuProvider struct{}

func (EditMenuProvider) MenuItems(targetID string, selection []string) []MenuItem {
	none := len(selection) == 0
	return []MenuItem{
		{
			ID:       "edit.delete",
			Label:    "Delete",
			Disabled: none,
			Action:   func(ed *Editor) { ed.DeleteSelection() },
		},
		{
			ID:       "edit.duplicate",
			Label:    "Duplicate",
			Disabled: none,
			Action:   func(ed *Editor) { ed.DuplicateSelection() },
		},
	}
}

// ArrangeMenuProvider contributes grouping actions.
type ArrangeMenuProvider struct{}

func (ArrangeMenuProvider) MenuItems(targetID string, selection []string) []MenuItem {
	return []MenuItem{
		{
			ID:       "arrange.group",
			Label:    "Group",
			Disabled: len(selection) < 2,
			Action:   func(ed *Editor) { ed.GroupSelection() },
		},
		{
			ID:       "arrange.ungroup",
			Label:    "Ungroup",
			Disabled: len(selection) != 1,
			Action:   func(ed *Editor) { ed.UngroupSelection() },
		},
	}
}
