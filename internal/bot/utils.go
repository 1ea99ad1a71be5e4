package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// warningText builds the reply posted under the earlier matched message.
// The countdown line is appended later by the warner on every tick.
func warningText(from *tgbotapi.User, similarity float64) string {
	return fmt.Sprintf("%s, уже было тут ^^^\n\n`similarity: %s`", displayName(from), formatRatio(similarity))
}

// displayName prefers the @username mention; falls back to the first name,
// then to the numeric id.
func displayName(from *tgbotapi.User) string {
	switch {
	case from == nil:
		return "someone"
	case from.UserName != "":
		return "@" + from.UserName
	case from.FirstName != "":
		return from.FirstName
	default:
		return strconv.FormatInt(from.ID, 10)
	}
}

// formatRatio renders a similarity score with two decimals, without the
// trailing noise %v would produce for floats like 0.6000000000000001.
func formatRatio(ratio float64) string {
	return strconv.FormatFloat(ratio, 'f', 2, 64)
}
