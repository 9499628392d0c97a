package itinerary

import (
	"strings"

	"github.com/citywalk/go-walk-suggestions/internal/api/classifier"
	"github.com/citywalk/go-walk-suggestions/internal/types"
)

// foodPlaceKeywords match dining venues in place names and rubrics.
// Broader than the interest-text keywords: the catalog tags venues with
// many dining variants.
var foodPlaceKeywords = []string{
	"ресто", "кафе", "кофе", "бар", "столовая", "бистро", "пицц", "суши",
	"бургер", "питан", "кулинар", "фастфуд", "закусочная", "буфет", "гриль",
}

// naturePlaceKeywords keep a cafe inside a park: a venue matching both a
// food and a nature keyword is not a standalone restaurant.
var naturePlaceKeywords = []string{
	"парк", "сквер", "сад", "набережн", "бульвар", "лесопарк", "роща", "аллея", "променад",
}

// adminPlaceKeywords drop administrative and technical objects that are
// never desirable stops regardless of interests.
var adminPlaceKeywords = []string{
	// administrative institutions
	"дирекци", "администрац", "управлен", "офис", "план-схем", "информационн",
	"комната матери", "жилищно-коммунальн", "организац", "учрежден",

	// financial and legal
	"банк", "страхов", "нотариус", "юридическ", "суд", "библиотек",

	// corporate headquarters
	"газпром", "роснефт", "сбербанк", "втб", "альфа-банк", "тинькофф",
	"мтс", "мегафон", "билайн", "ростелеком", "почта россии",

	// office space
	"офисное здание", "бизнес-центр", "деловой центр", "административное здание",
	"служебное помещение", "управляющая компания", "диспетчерская",

	// technical infrastructure
	"котельная", "трансформаторная", "подстанция", "тепловой пункт",
}

// DedupePlaces removes duplicates by identity key; first occurrence wins.
func DedupePlaces(pool []types.Place) []types.Place {
	seen := make(map[string]struct{}, len(pool))
	out := make([]types.Place, 0, len(pool))
	for _, p := range pool {
		key := p.DedupeKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// FilterUnwanted drops administrative/technical objects and, unless food
// is allowed, standalone dining venues.
func FilterUnwanted(places []types.Place, allowFood bool) []types.Place {
	out := make([]types.Place, 0, len(places))
	for _, p := range places {
		text := strings.ToLower(p.Name) + " " + p.CategoryText()

		if classifier.ContainsAny(text, adminPlaceKeywords) {
			continue
		}
		if !allowFood {
			isFood := classifier.ContainsAny(text, foodPlaceKeywords)
			isNature := classifier.ContainsAny(text, naturePlaceKeywords)
			if isFood && !isNature {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// AllowFood decides whether dining venues survive filtering. An explicit
// food interest in the raw text overrides the absence of a food category,
// unless the text is park-dominant.
func AllowFood(cats types.CategoryMap, interests string) bool {
	if len(cats[types.CategoryFood]) > 0 {
		return true
	}
	l := strings.ToLower(interests)
	if classifier.ContainsAny(l, classifier.FoodKeywords) && !classifier.ContainsAny(l, classifier.ParkKeywords) {
		return true
	}
	return false
}
