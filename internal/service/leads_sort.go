// internal/service/leads_sort.go
package service

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/unclebandit/campaign-dashboard/internal/model"
)

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByScore     SortKey = "score"
	SortByCreatedAt SortKey = "createdAt"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortConfig is the leads table ordering.
type SortConfig struct {
	Key       SortKey
	Direction Direction
}

var DefaultSort = SortConfig{Key: SortByCreatedAt, Direction: Desc}

// ParseSort reads query values, falling back to DefaultSort when either is
// unknown.
func ParseSort(key, dir string) SortConfig {
	k := SortKey(key)
	d := Direction(dir)
	switch k {
	case SortByName, SortByScore, SortByCreatedAt:
	default:
		return DefaultSort
	}
	if d != Asc && d != Desc {
		return DefaultSort
	}
	return SortConfig{Key: k, Direction: d}
}

// Toggle is the config after clicking the key's column header: the same key
// flips direction, a new key starts ascending.
func (c SortConfig) Toggle(key SortKey) SortConfig {
	if c.Key == key && c.Direction == Asc {
		return SortConfig{Key: key, Direction: Desc}
	}
	return SortConfig{Key: key, Direction: Asc}
}

// Apply returns a sorted copy; leads is left untouched. Ties keep their
// original order.
func (c SortConfig) Apply(leads []model.Lead) []model.Lead {
	out := append([]model.Lead(nil), leads...)

	var cmp func(a, b model.Lead) int
	switch c.Key {
	case SortByName:
		col := collate.New(language.AmericanEnglish)
		cmp = func(a, b model.Lead) int { return col.CompareString(a.Name, b.Name) }
	case SortByScore:
		cmp = func(a, b model.Lead) int {
			switch {
			case a.Score < b.Score:
				return -1
			case a.Score > b.Score:
				return 1
			}
			return 0
		}
	default:
		cmp = func(a, b model.Lead) int {
			switch {
			case a.CreatedAt < b.CreatedAt:
				return -1
			case a.CreatedAt > b.CreatedAt:
				return 1
			}
			return 0
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c.Direction == Desc {
			return cmp(out[j], out[i]) < 0
		}
		return cmp(out[i], out[j]) < 0
	})
	return out
}
