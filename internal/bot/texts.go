package bot

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"
)

// All user-facing texts of the bot. The moderation persona signs
// every message it sends to the monitored chats.
const signature = "\n[ваш Злой Миша]"

const explanationText = "✂️ Это я удалил ваше сообщение из-за нарушения правил. Прочитайте их еще раз внимательнее. Если произошла ошибка, напишите админам в бот: @ProPerevod_bot" + signature

const greetingText = "Привет! Я — бот Злой Миша. Теперь я буду активно следить за правилами в чатах. Ждите меня, я приду 👹" + signature

// Support menu (private chats).
const (
	menuButtonSendFile    = "Отправить файл с переводом"
	menuButtonWriteAdmins = "Написать админам"

	menuPromptText         = "Выберите действие:"
	sendFileText           = "Чтобы отправить свой файл, заполните мини-анкету: https://tally.so/r/3qQZg2. Это займет всего пару минут!"
	writeAdminsPromptText  = "Здесь можно написать что угодно. Мы ответим вам в ближайшее время.\nПожалуйста, добавьте в сообщение свой ник в формате @никнейм."
	forwardedAckText       = "Ваше сообщение отправлено администраторам! Спасибо ❤️"
	forwardFailedText      = "Не получилось передать сообщение администраторам. Попробуйте позже."
	chooseButtonText       = "Пожалуйста, выберите одну из кнопок."
	cancelText             = "Диалог отменён. Напишите /start для начала."
	supportUnavailableText = "Связь с администраторами сейчас не настроена. Попробуйте позже."
	adminReplyLostText     = "Не удалось определить получателя: пересланное сообщение устарело."
)

func warningText(n int, name string) string {
	switch n {
	case 1:
		return fmt.Sprintf("⚠️ %s, по правилам это запрещено. Вам первое предупреждение. (1/3)%s", name, signature)
	default:
		return fmt.Sprintf("⚠️ %s, по правилам это запрещено. Вам второе предупреждение. Следующее будет последним. (2/3)%s", name, signature)
	}
}

func banNoticeText(name string) string {
	return fmt.Sprintf("❌ %s, вы получили 3 предупреждения и добавлены в черный список. (3/3)%s", name, signature)
}

func banReportText(message *models.Message, now time.Time) string {
	groupName := message.Chat.Title
	if groupName == "" {
		groupName = fmt.Sprintf("группа %d", message.Chat.ID)
	}

	userInfo := fmt.Sprintf("%s (ID: %d)", displayName(message.From), message.From.ID)

	return fmt.Sprintf("🚫 НОВЫЙ БАН\n\n"+
		"👤 Пользователь: %s\n"+
		"💬 Группа: %s\n"+
		"📝 Нарушение: \"%s\"\n"+
		"⚠️ Предупреждений: 3/3\n"+
		"🕐 Время: %s\n\n"+
		"[Злой Миша - отчет о модерации]",
		userInfo, groupName, messageText(message), now.Format("02.01.2006 15:04:05"))
}

// displayName returns "@username" when the user has one, otherwise
// the first name.
func displayName(user *models.User) string {
	if user == nil {
		return ""
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return user.FirstName
}
