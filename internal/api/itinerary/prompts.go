package itinerary

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const (
	maxPromptChars       = 6000
	maxRankingCandidates = 30
)

// truncatePrompt cuts oversized prompts without splitting a multi-byte
// rune at the boundary.
func truncatePrompt(s string) string {
	if len(s) <= maxPromptChars {
		return s
	}
	cut := maxPromptChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func getSelectPlacesPrompt(places []types.Place, interests string, targetCount int) string {
	var items []string
	for idx, p := range places {
		if idx == maxRankingCandidates {
			break
		}
		line := fmt.Sprintf("%d: %s | %s", idx, p.Name, strings.Join(p.Categories, ", "))
		if p.Rating != nil {
			line += fmt.Sprintf(" | рейтинг %.1f", *p.Rating)
		}
		if p.DistanceKm != nil {
			line += fmt.Sprintf(" | расстояние %.1f км", *p.DistanceKm)
		}
		items = append(items, line)
	}

	return truncatePrompt(fmt.Sprintf(`Интересы пользователя: %s

Ниже список из %d мест.
Выбери %d САМЫХ ПОДХОДЯЩИХ мест для пешеходного маршрута.

ВАЖНО:
- Выбирай места, которые РЕАЛЬНО соответствуют интересам
- Если интересы 'парки' — выбирай парки, а НЕ рестораны в парках
- НЕ выбирай административные здания (офисы банков и компаний)
- НЕ выбирай технические объекты (подстанции, котельные, диспетчерские)
- Учитывай рейтинг мест
- ПРИОРИТЕТ: места ДОЛЖНЫ быть ближе к начальной точке. Сначала выбирай варианты с расстоянием до 5 км; дальше 5 км — только если место обязательно к посещению или явно лучше ближних
- СТАРАЙСЯ выбирать места, расположенные РЯДОМ друг с другом (компактный маршрут)

Верни JSON-массив из %d индексов (от 0 до %d) в порядке приоритета.
Формат: [5, 12, 3, 8, 15]

Места:
%s`, interests, len(places), targetCount, targetCount, len(places)-1, strings.Join(items, "\n")))
}

func getEnrichmentPrompt(places []types.Place, interests string) string {
	var items []string
	for idx, p := range places {
		items = append(items, fmt.Sprintf("%d. %s | рубрики: %s", idx+1, p.Name, strings.Join(p.Categories, ", ")))
	}
	if interests == "" {
		interests = "общие"
	}

	return truncatePrompt(fmt.Sprintf(`Ниже список мест для маршрута. Интересы пользователя: %s.

Для КАЖДОГО места:
1. Напиши краткое объяснение (20-30 слов), почему вам туда стоит зайти (обращение на 'вы')
2. Оцени, сколько минут нужно провести в этом месте (от 15 до 90 минут)

Примеры времени:
- Памятник, скульптура: 10-15 минут
- Музей небольшой: 30-40 минут
- Музей большой: 60-90 минут
- Парк, набережная: 30-45 минут
- Смотровая площадка: 15-20 минут

ФОРМАТ ОТВЕТА (JSON):
[
  {"explanation": "текст объяснения", "minutes": 30},
  {"explanation": "текст объяснения", "minutes": 45}
]

ВАЖНО:
- Возвращай ТОЛЬКО JSON-массив
- Ровно %d элементов
- Активные формулировки: 'здесь вы увидите', 'вам откроется'

Места:
%s`, interests, len(places), strings.Join(items, "\n")))
}

func getAlternativeQueriesPrompt(interests string, tried []string) string {
	return truncatePrompt(fmt.Sprintf(`Интересы пользователя: %s

Мы искали места по запросам: %s
Но нашли мало подходящих мест (административные объекты отфильтрованы).

Предложи 5-7 АЛЬТЕРНАТИВНЫХ поисковых запросов (1-3 слова).
Запросы должны быть:
- Связаны с интересами пользователя
- Конкретными (например: 'планетарий', 'научный музей', 'технопарк')
- НЕ административными (избегай: 'дирекция', 'управление', 'офис')

Верни JSON-массив строк: ["запрос1", "запрос2", "запрос3"]`, interests, strings.Join(tried, ", ")))
}
