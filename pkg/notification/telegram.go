package notification

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/nikoksr/notify/service/telegram"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewTelegram builds a notify service posting to one Telegram chat.
func NewTelegram(token string, chatID int64) (*telegram.Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot")
	}
	log.Infof("telegram notifications as %s", bot.Self.UserName)

	tg := &telegram.Telegram{}
	tg.SetClient(bot)
	tg.AddReceivers(chatID)
	return tg, nil
}
