package summary

import (
	"strings"
	"unicode/utf8"
)

const (
	// Максимальная длина summary в символах
	MaxLength = 280
	// Маркер, который ставится в конце обрезанного текста
	Placeholder = "…"
	// Тег, которым помечаются французские summary
	frenchTag = "[FR] "
)

// Детерминированная заглушка вместо похода во внешний AI сервис.
// Работает только с переданным текстом, поэтому одинаковый вход всегда дает одинаковый выход.
func Summarize(body string, hints []string, language string) string {
	text := body
	if len(hints) > 0 {
		text += " " + strings.Join(hints, " ")
	}

	// Переносы строк и любые последовательности пробелов схлопываем в один пробел
	summary := shorten(strings.Fields(text), MaxLength)

	if language == "fr" {
		return frenchTag + summary
	}

	return summary
}

// Склеивает слова, пока влезают в width.
// Если все не влезло, то обрезает по границе слова и дописывает Placeholder так, чтобы итог не превышал width.
func shorten(words []string, width int) string {
	full := strings.Join(words, " ")
	if utf8.RuneCountInString(full) <= width {
		return full
	}

	var (
		limit = width - utf8.RuneCountInString(Placeholder)
		b     strings.Builder
		size  int
	)

	for i, word := range words {
		add := utf8.RuneCountInString(word)
		if i > 0 {
			add++
		}

		if size+add > limit {
			break
		}

		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
		size += add
	}

	return b.String() + Placeholder
}
