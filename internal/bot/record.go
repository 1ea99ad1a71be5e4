package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/domain"
	"github.com/lueurxax/chat-supervisor-bot/internal/core/links"
	"github.com/lueurxax/chat-supervisor-bot/internal/core/textprep"
	"github.com/lueurxax/chat-supervisor-bot/internal/detector"
)

// buildIncoming converts a Telegram message into a comparable record.
// Text and caption are interchangeable sources; the link is the first URL
// in the raw text; media is identified by FileUniqueID, which is stable
// across chats and resends, unlike FileID.
func buildIncoming(msg *tgbotapi.Message) detector.Incoming {
	rawText := msg.Text
	if rawText == "" {
		rawText = msg.Caption
	}

	var authorID int64
	if msg.From != nil {
		authorID = msg.From.ID
	}

	return detector.Incoming{
		Record: domain.NewRecentMessage(
			int64(msg.MessageID),
			textprep.Normalize(rawText),
			links.ExtractFirstURL(rawText),
			mediaUniqueID(msg),
			msg.MediaGroupID,
		),
		AuthorID:  authorID,
		Forwarded: msg.ForwardDate != 0 || msg.ForwardFrom != nil || msg.ForwardFromChat != nil,
	}
}

// mediaUniqueID returns the content-addressed id of the message's media
// attachment, if any. For photos Telegram sends multiple sizes of the same
// content; the largest one is used consistently.
func mediaUniqueID(msg *tgbotapi.Message) string {
	switch {
	case len(msg.Photo) > 0:
		return msg.Photo[len(msg.Photo)-1].FileUniqueID
	case msg.Video != nil:
		return msg.Video.FileUniqueID
	case msg.Animation != nil:
		return msg.Animation.FileUniqueID
	case msg.Document != nil:
		return msg.Document.FileUniqueID
	case msg.Audio != nil:
		return msg.Audio.FileUniqueID
	case msg.Voice != nil:
		return msg.Voice.FileUniqueID
	case msg.VideoNote != nil:
		return msg.VideoNote.FileUniqueID
	case msg.Sticker != nil:
		return msg.Sticker.FileUniqueID
	default:
		return ""
	}
}
