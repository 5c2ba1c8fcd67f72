package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"moonmoji/clockface"
	"moonmoji/config"
	"moonmoji/moonphase"
)

const (
	startMessage      = "Let's go. Press a button."
	badRequestMessage = "Not sure what you mean..."

	moonButton  = "🌙 Moon"
	clockButton = "🕰 Clock"
	monthButton = "📅 Month"
)

// sender is the part of tgbotapi.BotAPI the handlers use
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers chat requests and announces phase changes
type Bot struct {
	api    sender
	chatID int64
	cfg    config.Config
	moon   *moonphase.Engine
	face   *clockface.Face
	state  State
	log    *zap.Logger
}

// NewBot wires the handlers to api
func NewBot(api sender, cfg config.Config, moon *moonphase.Engine, face *clockface.Face, log *zap.Logger) (*Bot, error) {
	chatID, err := cfg.ChatID()
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
		cfg:    cfg,
		moon:   moon,
		face:   face,
		state:  NewState(cfg.StateFilePath),
		log:    log,
	}, nil
}

// mono() returns monospaced escaped Markdown
func mono(s string) string {
	return "`" + tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s) + "`"
}

// keyboard is the reply keyboard attached to every answer
func keyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(moonButton),
			tgbotapi.NewKeyboardButton(clockButton),
			tgbotapi.NewKeyboardButton(monthButton),
		),
	)
}

// authChat() makes sure no one else except the configured chat can use this bot
func (b *Bot) authChat(chatID int64) bool {
	return chatID == b.chatID
}

// moonText describes the phase right now
func (b *Bot) moonText() string {
	p := b.moon.PhaseAt(b.moon.Now())
	return fmt.Sprintf("%s %s", p.Emoji, p.Name)
}

// monthText lists the coming days
func (b *Bot) monthText() string {
	var sb strings.Builder
	for _, d := range b.moon.Calendar(b.cfg.DemoDays) {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// reply picks the answer for an incoming message
func (b *Bot) reply(m *tgbotapi.Message) string {
	switch {
	case m.IsCommand() && m.Command() == "start":
		return startMessage
	case m.IsCommand() && m.Command() == "moon", m.Text == moonButton:
		return b.moonText()
	case m.IsCommand() && m.Command() == "clock", m.Text == clockButton:
		return b.face.Emoji()
	case m.IsCommand() && m.Command() == "month", m.Text == monthButton:
		return b.monthText()
	default:
		return badRequestMessage
	}
}

// handleChat() is telegram bot handler for chat interactions
func (b *Bot) handleChat(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if !b.authChat(update.Message.Chat.ID) {
		b.log.Warn("unauthorized chat", zap.Int64("chat_id", update.Message.Chat.ID))
		return
	}

	user := ""
	if update.Message.From != nil {
		user = update.Message.From.UserName
	}
	b.log.Info("message received", zap.String("user", user), zap.String("text", update.Message.Text))

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, mono(b.reply(update.Message)))
	msg.ReplyMarkup = keyboard()
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("cannot send message", zap.Error(err))
	}
}

// announce posts the phase when it differs from the last one posted.
// Variant glyphs count as their canonical phase.
func (b *Bot) announce() {
	now := b.moon.Now()
	idx := b.moon.Index(now)
	canonical := moonphase.Canonical(idx)

	last, err := b.state.Last()
	if err != nil {
		b.log.Error("cannot read state", zap.Error(err))
	}
	if last == canonical {
		b.log.Debug("phase unchanged", zap.String("phase", moonphase.Phases[canonical].Name))
		return
	}

	p := moonphase.Phases[idx]
	b.log.Info("phase changed, sending message", zap.String("phase", p.Name))

	msg := tgbotapi.NewMessage(b.chatID, mono(fmt.Sprintf("%s %s", p.Emoji, p.Name)))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("cannot send message to Telegram", zap.Error(err))
		return
	}
	if err := b.state.Set(canonical); err != nil {
		b.log.Error("cannot write state", zap.Error(err))
	}
}

// prepareState clears the state file when asked to
func (b *Bot) prepareState(reset bool) error {
	if !reset {
		return nil
	}
	if err := b.state.Init(); err != nil {
		return err
	}
	b.log.Info("state file initialized", zap.String("path", b.cfg.StateFilePath))
	return nil
}

// schedule starts the cron job announcing phase changes
func (b *Bot) schedule() (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Cron(b.cfg.CronExpression).Do(b.announce); err != nil {
		return nil, fmt.Errorf("scheduling announcement %q: %w", b.cfg.CronExpression, err)
	}
	s.StartAsync()
	return s, nil
}

// runBot authorizes with Telegram and serves updates until done is closed.
// With reset the state file is cleared, so the next cron run announces.
func runBot(cfg config.Config, moon *moonphase.Engine, face *clockface.Face, log *zap.Logger, reset bool, done <-chan struct{}) error {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("authorizing bot: %w", err)
	}
	log.Info("authorized", zap.String("account", api.Self.UserName))

	b, err := NewBot(api, cfg, moon, face, log)
	if err != nil {
		return err
	}
	if err := b.prepareState(reset); err != nil {
		return err
	}

	s, err := b.schedule()
	if err != nil {
		return err
	}
	defer s.Stop()
	log.Info("announcement job activated", zap.String("cron", cfg.CronExpression))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	log.Info("bot started")
	for {
		select {
		case <-done:
			log.Info("bot stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleChat(update)
		}
	}
}
