package service

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortByTurkishName orders items by name with Turkish collation rules
// (ç after c, ı before i, ...) and falls back to id for equal names.
// A collator is not safe for concurrent use, so each call builds its own.
func sortByTurkishName[T any](items []T, name func(*T) string, id func(*T) uint) {
	col := collate.New(language.Turkish, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		if c := col.CompareString(name(a), name(b)); c != 0 {
			return c < 0
		}
		return id(a) < id(b)
	})
}
