// Package chunker splits long text into Telegram-sized messages.
package chunker

import (
	"unicode/utf8"
)

// DefaultLimit максимальная длина текстового сообщения Telegram
const DefaultLimit = 4096

// minLimit минимальный лимит, при котором любой символ помещается в чанк
const minLimit = 2

// Length возвращает длину текста в UTF-16 code units, как её считает Telegram
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// Split разбивает текст на чанки длиной не более limit.
// Конкатенация чанков всегда равна исходному тексту: байты не теряются и не добавляются,
// руны не разрезаются. Предпочтительно режет после перевода строки, затем после пробела
// во второй половине окна.
func Split(s string, limit int) []string {
	if s == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit < minLimit {
		limit = minLimit
	}
	if Length(s) <= limit {
		return []string{s}
	}

	var chunks []string

	for start := 0; start < len(s); {
		end, units := start, 0
		for end < len(s) {
			r, size := utf8.DecodeRuneInString(s[end:])
			u := runeUnits(r)
			if units+u > limit {
				break
			}
			units += u
			end += size
		}

		if end < len(s) {
			end = boundary(s, start, end)
		}

		chunks = append(chunks, s[start:end])
		start = end
	}

	return chunks
}

// boundary ищет точку разреза в окне s[start:end]
// Разрез не раньше середины окна, чтобы чанки не получались слишком короткими.
// '\n' и ' ' однобайтовые, поэтому разрез после них всегда на границе руны.
func boundary(s string, start, end int) int {
	half := start + (end-start)/2

	for i := end - 1; i >= half; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i >= half; i-- {
		if s[i] == ' ' {
			return i + 1
		}
	}

	return end
}

// runeUnits длина руны в UTF-16; невалидный байт считается за один символ
func runeUnits(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
