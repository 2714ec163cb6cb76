package botkit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON разбирает аргументы команды как JSON. Пустые аргументы дают нулевое значение.
func ParseJSON[T any](src string) (T, error) {
	var args T

	src = strings.TrimSpace(src)
	if src == "" {
		return args, nil
	}

	if err := json.Unmarshal([]byte(src), &args); err != nil {
		return args, fmt.Errorf("invalid command arguments: %w", err)
	}

	return args, nil
}
