package numRating

import (
	"slices"
	"strconv"
	"strings"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
)

const maxRoundScore = 95

// Мемные номера ценятся наравне с однозначными.
var memeNumbers = []int{52, 67, 69, 228, 420, 666, 777, 1337} //nolint:gochecknoglobals

type rule struct {
	score       float64
	description string
	match       func(num int, s string) bool
}

// Правила проверяются по порядку, побеждает первое совпавшее.
var rules = []rule{ //nolint:gochecknoglobals
	{100, "Single Digit", func(num int, _ string) bool { return num > 0 && num < 10 }},
	{100, "Meme", func(num int, _ string) bool { return slices.Contains(memeNumbers, num) }},
	{100, "Solid", func(_ int, s string) bool { return isSolid(s) }},
	{90, "Double Digit", func(num int, _ string) bool { return num < 100 }},
	{85, "Ladder", func(_ int, s string) bool { return isLadder(s) }},
	{0, "Round", func(_ int, s string) bool { return isRound(s) }},
	{75, "Triple Digit", func(num int, _ string) bool { return num < 1000 }},
	{70, "Repeater", func(_ int, s string) bool { return isRepeater(s) }},
	{65, "Palindrome", func(_ int, s string) bool { return isPalindrome(s) }},
	{25, "Lucky Suffix", func(_ int, s string) bool { return len(s) >= 5 && isSolid(s[len(s)-3:]) }},
}

// CalculateValue оценивает красоту серийного номера подарка.
func CalculateValue(num int) entity.Rating {
	if num <= 0 {
		return entity.Rating{Score: 0, Description: "Random", IsUnique: false}
	}

	s := strconv.Itoa(num)

	for _, r := range rules {
		if !r.match(num, s) {
			continue
		}

		score := r.score
		if r.description == "Round" {
			score = min(50+float64(countTrailingZeros(s))*10, maxRoundScore) //nolint:mnd
		}

		return entity.Rating{Score: score, Description: r.description, IsUnique: true}
	}

	return entity.Rating{Score: 0, Description: "Random", IsUnique: false}
}

// RateName оценивает номер из имени подарка ("Plush Pepe #777").
func RateName(name value.GiftName) (entity.Rating, bool) {
	serial, ok := name.Serial()
	if !ok {
		return entity.Rating{}, false
	}

	return CalculateValue(serial), true
}

func isSolid(s string) bool {
	if len(s) == 0 {
		return false
	}

	return strings.Count(s, s[:1]) == len(s)
}

func isRound(s string) bool {
	return len(s) > 3 && strings.HasSuffix(s, "000") && isSolid(s[:len(s)-3])
}

func isLadder(s string) bool {
	if len(s) < 3 {
		return false
	}

	ascending, descending := true, true

	for i := 1; i < len(s); i++ {
		diff := int(s[i]) - int(s[i-1])
		ascending = ascending && diff == 1
		descending = descending && diff == -1
	}

	return ascending || descending
}

func isPalindrome(s string) bool {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}

	return true
}

// XYXY, XYZXYZ и тройные повторы вида 121212.
func isRepeater(s string) bool {
	n := len(s)

	if n%2 == 0 && s[:n/2] == s[n/2:] {
		return true
	}

	if n%3 == 0 {
		part := n / 3 //nolint:mnd

		return strings.Repeat(s[:part], 3) == s //nolint:mnd
	}

	return false
}

func countTrailingZeros(s string) int {
	return len(s) - len(strings.TrimRight(s, "0"))
}
