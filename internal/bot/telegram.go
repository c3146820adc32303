package bot

import (
	"fmt"
	"log"
	"os"
	"time"

	"market-pulse/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// SnapshotSource is the read-only pipeline surface the bot consumes.
type SnapshotSource interface {
	Latest() (domain.DerivedSnapshot, bool)
}

const warmingUpMsg = "Warming up, no snapshot yet. Try again in a minute."

func StartTelegramBot(pipeline SnapshotSource) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/score", func(c tele.Context) error {
		snap, ok := pipeline.Latest()
		if !ok {
			return c.Send(warmingUpMsg)
		}
		return c.Send(fmt.Sprintf(
			"Composite Score: %d/100\nZone: %s\nRegime: %s",
			snap.CompositeScore, snap.Zone, snap.Regime,
		))
	})

	b.Handle("/price", func(c tele.Context) error {
		snap, ok := pipeline.Latest()
		if !ok || snap.PriceUSD == nil {
			return c.Send(warmingUpMsg)
		}
		msg := fmt.Sprintf("BTC\nPrice: $%.2f", *snap.PriceUSD)
		if snap.Change24hPct != nil {
			msg += fmt.Sprintf("\n24h Change: %.2f%%", *snap.Change24hPct)
		}
		if snap.PctFromATH != nil {
			msg += fmt.Sprintf("\nFrom ATH: %.2f%%", *snap.PctFromATH)
		}
		return c.Send(msg)
	})

	b.Handle("/mood", func(c tele.Context) error {
		snap, ok := pipeline.Latest()
		if !ok {
			return c.Send(warmingUpMsg)
		}
		if snap.SentimentIndex == nil {
			return c.Send(fmt.Sprintf("Sentiment: n/a (%s)", snap.SentimentLabel))
		}
		return c.Send(fmt.Sprintf(
			"Sentiment: %d/100 (%s)", *snap.SentimentIndex, snap.SentimentLabel,
		))
	})

	log.Println("Telegram bot started")
	go b.Start()
}
