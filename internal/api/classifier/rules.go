package classifier

import (
	"strings"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

// FoodKeywords mark an explicit dining interest in the raw text.
var FoodKeywords = []string{"еда", "поесть", "ресторан", "кафе", "кофе", "бар", "гастро", "перекус", "вкусн"}

// ParkKeywords mark a park/stroll interest; their presence suppresses
// implicit food suggestions.
var ParkKeywords = []string{"парк", "прогул", "сквер", "набережн", "природ", "погулять"}

// clause is one keyword group: every sub-keyword must co-occur in the
// text for the clause to hold.
type clause []string

// heuristicRule fires when any of its clauses holds. Rules apply
// cumulatively; a category accumulates query lists from every rule that
// fires, de-duplicated while preserving first-seen order.
type heuristicRule struct {
	clauses  []clause
	category string
	queries  []string
}

var heuristicRules = []heuristicRule{
	{
		clauses:  []clause{{"истор"}, {"кремл"}, {"музе"}, {"памятник"}, {"старин"}},
		category: types.CategoryHistory,
		queries:  []string{"музей", "кремль", "памятник", "усадьба", "исторический центр"},
	},
	{
		clauses:  []clause{{"архитектур"}, {"здани", "красив"}, {"церк"}, {"собор"}, {"храм"}},
		category: types.CategoryHistory,
		queries:  []string{"собор", "церковь", "архитектурный памятник", "усадьба"},
	},
	{
		clauses:  []clause{{"искусств"}, {"галере"}, {"выстав"}, {"театр"}, {"арт"}},
		category: types.CategoryArt,
		queries:  []string{"галерея", "выставка", "театр", "арт-пространство"},
	},
	{
		clauses:  []clause{{"парк"}, {"прогул"}, {"сквер"}, {"природ"}, {"погулять"}},
		category: types.CategoryParks,
		queries:  []string{"парк", "сквер", "сад", "набережная"},
	},
	{
		clauses:  []clause{{"набережн"}, {"река"}, {"волг"}},
		category: types.CategoryViews,
		queries:  []string{"набережная", "смотровая площадка"},
	},
	{
		clauses:  []clause{{"вид"}, {"смотров"}, {"панорам"}, {"закат"}, {"красив", "мест"}},
		category: types.CategoryViews,
		queries:  []string{"смотровая площадка", "панорама", "набережная"},
	},
}

// genericFoodQueries populate the food category when dining is asked for
// explicitly and the text is not park-dominant.
var genericFoodQueries = []string{"ресторан", "кафе", "кофейня", "бар"}

// defaultCategories keep the map non-empty when nothing matched at all.
var defaultCategories = types.CategoryMap{
	types.CategoryHistory: {"музей", "памятник"},
	types.CategoryParks:   {"парк", "набережная"},
	types.CategoryViews:   {"смотровая площадка"},
}

func (r heuristicRule) matches(textLower string) bool {
	for _, c := range r.clauses {
		hit := true
		for _, kw := range c {
			if !strings.Contains(textLower, kw) {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}

// mergeQueries appends add to dst, dropping duplicates while preserving
// first-seen order.
func mergeQueries(dst, add []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, q := range dst {
		seen[q] = struct{}{}
	}
	for _, q := range add {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		dst = append(dst, q)
	}
	return dst
}

// ContainsAny reports whether any keyword occurs in the lowercased text.
func ContainsAny(textLower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(textLower, kw) {
			return true
		}
	}
	return false
}
