package markup

import (
	"fmt"
	"strings"
)

// Символы, которые в MarkdownV2 надо экранировать вне сущностей
const specialChars = "_*[]()~`>#+-=|{}.!\\"

var replacer = newReplacer()

func newReplacer() *strings.Replacer {
	pairs := make([]string, 0, 2*len(specialChars))
	for _, ch := range specialChars {
		pairs = append(pairs, string(ch), "\\"+string(ch))
	}
	return strings.NewReplacer(pairs...)
}

// Функция которая делает escape спец символы markdown специально для телеграма
func EscapeForMarkdown(src string) string {
	return replacer.Replace(src)
}

// Bold экранирует текст и делает его жирным
func Bold(text string) string {
	return "*" + EscapeForMarkdown(text) + "*"
}

// Внутри (...) ссылки телеграм требует экранировать только ) и \
var linkReplacer = strings.NewReplacer(`\`, `\\`, `)`, `\)`)

// Link собирает ссылку [text](url)
func Link(text, url string) string {
	return fmt.Sprintf("[%s](%s)", EscapeForMarkdown(text), linkReplacer.Replace(url))
}
