// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration форматирует time.Duration в формат MM:SS,
// либо HH:MM:SS для записей длиннее часа
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// TruncateString обрезает строку до указанного числа символов, добавляя "…" если строка длиннее.
// Длина считается в рунах, чтобы не разрезать многобайтовые символы.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

// Preview превращает многострочный текст транскрипта в однострочный анонс
// указанной длины для отображения в списках
func Preview(text string, maxLen int) string {
	oneLine := strings.Join(strings.Fields(text), " ")
	return TruncateString(oneLine, maxLen)
}
