package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/worker"
)

const topOffendersLimit = 5

// processMessage runs the duplicate check for one chat message. Invocations
// for the same chat are serialized by the chat's queue consumer.
func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	defer worker.RecoverPanic(b.logger, "process message")

	chatID := msg.Chat.ID
	in := buildIncoming(msg)

	err := worker.RunWithTimeout(ctx, b.cfg.ProcessTimeout, func(ctx context.Context) error {
		verdict, err := b.detect.Check(ctx, chatID, in)
		if err != nil {
			return err
		}

		if !verdict.Duplicate() {
			return nil
		}

		if _, err := b.counters.IncrementDuplicateCount(ctx, chatID, in.AuthorID); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Int64("user_id", in.AuthorID).Msg("failed to increment duplicate counter")
		}

		text := warningText(msg.From, verdict.Report.Effective)
		if _, err := b.warner.Warn(ctx, chatID, verdict.MatchedID, text); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to post warning")
		}

		return nil
	})
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Int("message_id", msg.MessageID).Msg("duplicate check failed")
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !b.cfg.IsAdmin(msg.From.ID) {
		b.logger.Warn().Int64("chat_id", msg.Chat.ID).Msg("ignoring command from non-admin")

		return
	}

	b.logger.Info().Str("command", msg.Command()).Int64("user_id", msg.From.ID).Msg("handling command")

	switch msg.Command() {
	case "start", "help":
		b.handleHelp(msg)
	case "status":
		b.handleStatus(ctx, msg)
	case "threshold":
		b.handleThreshold(msg)
	case "clear":
		b.handleClear(ctx, msg)
	case "dismiss":
		b.handleDismiss(msg)
	default:
		b.reply(msg, fmt.Sprintf("Unknown command: /%s", msg.Command()))
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	help := strings.Join([]string{
		"I watch this chat for reposts and flag near-duplicates.",
		"",
		"/status - window and counter summary",
		"/threshold [value] - show or set the similarity threshold",
		"/clear - forget the recent messages of this chat",
		"/dismiss - reply to a warning to stop its self-destruction countdown",
		"/help - this message",
	}, "\n")

	b.reply(msg, help)
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) {
	text, err := b.statusText(ctx, msg)
	if err != nil {
		b.reply(msg, fmt.Sprintf("Error building status: %s", err))

		return
	}

	b.reply(msg, text)
}

// statusText assembles the /status report: window fill, detection policy,
// active warnings and the chat's top reposters. When the command replies to
// a message, that author's duplicate count is included.
func (b *Bot) statusText(ctx context.Context, msg *tgbotapi.Message) (string, error) {
	chatID := msg.Chat.ID
	titler := cases.Title(language.English)

	records, err := b.recent.Contents(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("reading window: %w", err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %d/%d\n", titler.String("recent messages"), len(records), b.recent.Capacity()))
	sb.WriteString(fmt.Sprintf("%s: %s\n", titler.String("similarity threshold"), formatRatio(b.detect.Threshold())))
	sb.WriteString(fmt.Sprintf("%s: %s\n", titler.String("warning lifetime"), b.cfg.WarningLifetime()))
	sb.WriteString(fmt.Sprintf("%s: %v\n", titler.String("forwarded only"), b.cfg.CheckOnlyForwarded))
	sb.WriteString(fmt.Sprintf("%s: %d\n", titler.String("active warnings"), b.warner.ActiveCount()))

	top, err := b.counters.TopDuplicateUsers(ctx, chatID, topOffendersLimit)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to load top duplicate users")
	}

	if len(top) > 0 {
		sb.WriteString("\n" + titler.String("top reposters") + ":\n")

		for _, row := range top {
			sb.WriteString(fmt.Sprintf("  %d: %d\n", row.UserID, row.Count))
		}
	}

	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil {
		count, err := b.counters.GetDuplicateCount(ctx, chatID, reply.From.ID)
		if err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Int64("user_id", reply.From.ID).Msg("failed to load duplicate count")
		} else {
			sb.WriteString(fmt.Sprintf("\n%s %s: %d\n", titler.String("reposts by"), displayName(reply.From), count))
		}
	}

	return sb.String(), nil
}

// handleThreshold shows the current similarity threshold, or replaces it
// when called with a value. The change lasts until restart.
func (b *Bot) handleThreshold(msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.reply(msg, fmt.Sprintf("Similarity threshold: %s", formatRatio(b.detect.Threshold())))

		return
	}

	value, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		b.reply(msg, fmt.Sprintf("Not a number: %q", arg))

		return
	}

	if err := b.detect.SetThreshold(value); err != nil {
		b.reply(msg, "Threshold must be between 0 and 1.")

		return
	}

	b.reply(msg, fmt.Sprintf("Similarity threshold set to %s.", formatRatio(value)))
}

func (b *Bot) handleClear(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.recent.Clear(ctx, msg.Chat.ID); err != nil {
		b.reply(msg, fmt.Sprintf("Error clearing window: %s", err))

		return
	}

	b.reply(msg, "Recent messages cleared.")
}

// handleDismiss cancels the self-destruction countdown of the warning the
// admin replied to, marking it a false positive. The warning message stays.
func (b *Bot) handleDismiss(msg *tgbotapi.Message) {
	if msg.ReplyToMessage == nil {
		b.reply(msg, "Reply to a warning message with /dismiss to cancel it.")

		return
	}

	handle := ports.NotificationHandle{ChatID: msg.Chat.ID, MessageID: msg.ReplyToMessage.MessageID}
	if !b.warner.CancelByHandle(handle) {
		b.reply(msg, "No active warning found for that message.")

		return
	}

	b.reply(msg, "Warning dismissed.")
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.api.Send(reply); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to send reply")
	}
}
