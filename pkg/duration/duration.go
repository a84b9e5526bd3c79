// Package duration разбирает строки длительности вида "15m" или "7d".
package duration

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// DefaultSeconds используется, если строку не удалось разобрать.
const DefaultSeconds int64 = 3600

// maxSeconds - наибольшее число секунд, представимое в time.Duration.
const maxSeconds = math.MaxInt64 / int64(time.Second)

var pattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseSeconds переводит строку длительности в секунды.
// Некорректный ввод дает DefaultSeconds.
func ParseSeconds(s string) int64 {
	match := pattern.FindStringSubmatch(s)
	if match == nil {
		return DefaultSeconds
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return DefaultSeconds
	}

	unit := unitSeconds[match[2]]
	if value > maxSeconds/unit {
		return DefaultSeconds
	}

	return value * unit
}

// Parse возвращает ту же длительность как time.Duration.
func Parse(s string) time.Duration {
	return time.Duration(ParseSeconds(s)) * time.Second
}
