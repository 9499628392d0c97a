package itinerary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/citywalk/go-walk-suggestions/internal/api/geo"
	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const (
	// Extra minutes granted on top of the requested duration when no
	// buffer is configured.
	defaultBufferMinutes = 30

	// Stops the sequencer always considers regardless of remaining budget.
	minCommittedStops = 3

	defaultStayMinutes = 30
)

// BuildItinerary walks the shortlist in selector order (no route
// optimization) and commits stops while the time budget lasts. The first
// minCommittedStops candidates are always considered; after that a stop
// is skipped once remaining < travel + stay. Candidates with corrupt
// coordinates are skipped without advancing the previous point.
func BuildItinerary(shortlist []types.Place, timeHours float64, bufferMinutes int, origin types.GeoPoint, startLabel string) (*types.Itinerary, string, []types.GeoPoint) {
	if bufferMinutes <= 0 {
		bufferMinutes = defaultBufferMinutes
	}
	remaining := int(math.Round(timeHours*60)) + bufferMinutes

	var lines []string
	lines = append(lines, fmt.Sprintf("Маршрут на %s часов", strconv.FormatFloat(timeHours, 'f', -1, 64)))
	lines = append(lines, "Старт: "+startLabel)

	itinerary := &types.Itinerary{}
	var coords []types.GeoPoint
	var totalTravel, totalStay int
	var totalKm float64

	prev := origin
	step := 1
	for _, p := range shortlist {
		var travelMin int
		var mode types.TravelMode
		var km float64

		if p.Coords != nil {
			travelMin, mode, km = geo.TravelEstimate(prev, *p.Coords)
			if mode == types.ModeError {
				continue
			}
		} else {
			travelMin, mode, km = 0, types.ModeStart, 0.0
		}

		stayMin := p.StayMinutes
		if stayMin <= 0 {
			stayMin = defaultStayMinutes
		}
		needed := travelMin + stayMin

		if len(itinerary.Stops) >= minCommittedStops && remaining < needed {
			continue
		}

		remaining -= needed
		totalTravel += travelMin
		totalStay += stayMin
		totalKm += km

		lines = append(lines, formatStop(step, p, travelMin, mode, stayMin))
		itinerary.Stops = append(itinerary.Stops, types.ItineraryStop{
			Place:         p,
			TravelMinutes: travelMin,
			Mode:          mode,
			StayMinutes:   stayMin,
			DistanceKm:    km,
		})
		if p.Coords != nil {
			prev = *p.Coords
			coords = append(coords, *p.Coords)
		}
		step++
	}

	itinerary.TotalMinutes = totalTravel + totalStay
	itinerary.TotalDistanceKm = math.Round(totalKm*10) / 10

	lines = append(lines, fmt.Sprintf("Итого: ~%d мин, ~%.1f км", itinerary.TotalMinutes, itinerary.TotalDistanceKm))
	lines = append(lines, "Советы: надевайте удобную обувь; уточняйте часы работы по месту; учитывайте время на транспорт.")

	return itinerary, strings.Join(lines, "\n"), coords
}

func formatStop(step int, p types.Place, travelMin int, mode types.TravelMode, stayMin int) string {
	address := p.Address
	if address == "" {
		address = "адрес не указан"
	}

	var travelDesc string
	switch mode {
	case types.ModeStart:
		travelDesc = "0 мин"
	case types.ModeTransit:
		travelDesc = fmt.Sprintf("%d мин (транспорт)", travelMin)
	default:
		travelDesc = fmt.Sprintf("%d мин", travelMin)
	}

	return fmt.Sprintf("%d) %s — %s\nАдрес: %s\nВремя на месте: %d мин\nПереход: %s",
		step, p.Name, rationaleFor(p), address, stayMin, travelDesc)
}

// rationaleFor prefers the enrichment text and otherwise assembles a
// short reason from rubrics and rating.
func rationaleFor(p types.Place) string {
	if r := strings.TrimSpace(p.Rationale); r != "" {
		return r
	}
	var parts []string
	if cats := strings.Join(p.Categories, ", "); cats != "" {
		parts = append(parts, cats)
	}
	if p.Rating != nil {
		parts = append(parts, fmt.Sprintf("рейтинг %.1f", *p.Rating))
	}
	if len(parts) == 0 {
		return "популярное место рядом по вашим интересам"
	}
	return strings.Join(parts, "; ")
}
