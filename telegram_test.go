package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"moonmoji/clockface"
	"moonmoji/config"
	"moonmoji/moonphase"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

const testChatID = 4242

// 2013-03-05 00:00 UTC: last quarter moon
var lastQuarter = time.Date(2013, 3, 5, 0, 0, 0, 0, time.UTC)

func newTestBot(t *testing.T, clock clockwork.Clock) (*Bot, *fakeSender) {
	t.Helper()
	cfg := config.Default()
	cfg.TelegramBotToken = "token"
	cfg.TelegramChatID = "4242"
	cfg.StateFilePath = filepath.Join(t.TempDir(), "state.txt")
	cfg.DemoDays = 3

	moon := moonphase.New(moonphase.WithClock(clock), moonphase.WithVariantProbability(0))
	api := &fakeSender{}
	b, err := NewBot(api, cfg, moon, clockface.New(clock), zap.NewNop())
	require.NoError(t, err)
	return b, api
}

func command(chatID int64, text string) tgbotapi.Update {
	m := &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{UserName: "tester"},
	}
	if strings.HasPrefix(text, "/") {
		m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return tgbotapi.Update{Message: m}
}

func TestMono(t *testing.T) {
	assert.Equal(t, "`🌗 Last Quarter`", mono("🌗 Last Quarter"))
	assert.Equal(t, "`New Moon \\*`", mono("New Moon *"))
}

func TestNewBot_BadChatID(t *testing.T) {
	cfg := config.Default()
	cfg.TelegramChatID = "me"
	_, err := NewBot(&fakeSender{}, cfg, moonphase.New(), clockface.New(nil), zap.NewNop())
	assert.Error(t, err)
}

func TestBot_HandleChat(t *testing.T) {
	clock := clockwork.NewFakeClockAt(lastQuarter.In(time.Local))

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "start", text: "/start", want: startMessage},
		{name: "moon command", text: "/moon", want: "🌗 Last Quarter"},
		{name: "moon button", text: moonButton, want: "🌗 Last Quarter"},
		{name: "clock command", text: "/clock", want: clockface.EmojiAt(lastQuarter.Local())},
		{name: "clock button", text: clockButton, want: clockface.EmojiAt(lastQuarter.Local())},
		{name: "month", text: "/month", want: "2013-03-05 – Last Quarter 🌗\n2013-03-06 – Waning Crescent 🌘\n2013-03-07 – Waning Crescent 🌘\n"},
		{name: "unknown", text: "hello", want: badRequestMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api := newTestBot(t, clock)
			b.handleChat(command(testChatID, tt.text))

			require.Len(t, api.sent, 1)
			assert.Equal(t, mono(tt.want), api.sent[0].Text)
			assert.Equal(t, int64(testChatID), api.sent[0].ChatID)
			assert.Equal(t, tgbotapi.ModeMarkdownV2, api.sent[0].ParseMode)
			assert.NotNil(t, api.sent[0].ReplyMarkup)
		})
	}
}

func TestBot_HandleChat_Unauthorized(t *testing.T) {
	b, api := newTestBot(t, clockwork.NewFakeClockAt(lastQuarter))

	b.handleChat(command(1, "/moon"))
	b.handleChat(tgbotapi.Update{})

	assert.Empty(t, api.sent)
}

func TestBot_Announce(t *testing.T) {
	clock := clockwork.NewFakeClockAt(lastQuarter)
	b, api := newTestBot(t, clock)

	b.announce()
	require.Len(t, api.sent, 1)
	assert.Equal(t, mono("🌗 Last Quarter"), api.sent[0].Text)

	// same phase a few hours later: nothing new to say
	clock.Advance(6 * time.Hour)
	b.announce()
	assert.Len(t, api.sent, 1)

	// 2013-03-08 is a waning crescent
	clock.Advance(3 * 24 * time.Hour)
	b.announce()
	require.Len(t, api.sent, 2)
	assert.Equal(t, mono("🌘 Waning Crescent"), api.sent[1].Text)

	last, err := b.state.Last()
	require.NoError(t, err)
	assert.Equal(t, moonphase.WaningCrescent, last)
}

func TestBot_AnnounceSendFailureKeepsState(t *testing.T) {
	b, api := newTestBot(t, clockwork.NewFakeClockAt(lastQuarter))
	api.err = errors.New("telegram down")

	b.announce()

	last, err := b.state.Last()
	require.NoError(t, err)
	assert.Equal(t, -1, last)
}

func TestBot_Schedule(t *testing.T) {
	b, _ := newTestBot(t, clockwork.NewFakeClockAt(lastQuarter))

	s, err := b.schedule()
	require.NoError(t, err)
	s.Stop()

	b.cfg.CronExpression = "not a cron"
	_, err = b.schedule()
	assert.Error(t, err)
}

func TestBot_PrepareState(t *testing.T) {
	b, _ := newTestBot(t, clockwork.NewFakeClockAt(lastQuarter))
	require.NoError(t, b.state.Set(moonphase.LastQuarter))

	require.NoError(t, b.prepareState(false))
	last, err := b.state.Last()
	require.NoError(t, err)
	assert.Equal(t, moonphase.LastQuarter, last, "kept without reset")

	require.NoError(t, b.prepareState(true))
	last, err = b.state.Last()
	require.NoError(t, err)
	assert.Equal(t, -1, last)
}

func TestBot_ResetAnnouncesAgain(t *testing.T) {
	b, api := newTestBot(t, clockwork.NewFakeClockAt(lastQuarter))

	b.announce()
	b.announce()
	require.Len(t, api.sent, 1)

	require.NoError(t, b.prepareState(true))
	b.announce()
	assert.Len(t, api.sent, 2)
}
