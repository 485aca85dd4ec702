package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"croupier/events"
	"croupier/models"
	"croupier/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

// gameMessage tracks the Discord message rendering a live game session so
// tick and settlement events can edit it
type gameMessage struct {
	AccountID int64
	ChannelID string
	MessageID string
	lastEdit  time.Time
	Timestamp time.Time
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	accountService service.AccountService
	casinoService  service.CasinoService
	eventBus       *events.Bus

	gameMessagesMu sync.RWMutex
	gameMessages   map[int64]*gameMessage
}

func New(config Config, accountService service.AccountService, casinoService service.CasinoService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:         config,
		session:        dg,
		accountService: accountService,
		casinoService:  casinoService,
		eventBus:       eventBus,
		gameMessages:   make(map[int64]*gameMessage),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleCasinoInteraction)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// The engine reports session progress through events; the bot only
	// renders them
	eventBus.Subscribe(events.EventTypeSessionTick, func(ctx context.Context, event events.Event) {
		if tick, ok := event.(events.SessionTickEvent); ok {
			bot.handleSessionTick(tick)
		}
	})
	eventBus.Subscribe(events.EventTypeSessionSettled, func(ctx context.Context, event events.Event) {
		if settled, ok := event.(events.SessionSettledEvent); ok {
			bot.handleSessionSettled(settled)
		}
	})

	// Start periodic cleanup of stale game message refs
	go bot.startMessageCleanup()

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// saveGameMessage stores the message rendering an account's live session
func (b *Bot) saveGameMessage(accountID int64, channelID, messageID string) {
	b.gameMessagesMu.Lock()
	defer b.gameMessagesMu.Unlock()
	b.gameMessages[accountID] = &gameMessage{
		AccountID: accountID,
		ChannelID: channelID,
		MessageID: messageID,
		Timestamp: time.Now(),
	}
}

func (b *Bot) getGameMessage(accountID int64) *gameMessage {
	b.gameMessagesMu.RLock()
	defer b.gameMessagesMu.RUnlock()
	return b.gameMessages[accountID]
}

func (b *Bot) removeGameMessage(accountID int64) {
	b.gameMessagesMu.Lock()
	defer b.gameMessagesMu.Unlock()
	delete(b.gameMessages, accountID)
}

// startMessageCleanup drops refs for messages whose sessions are long gone
func (b *Bot) startMessageCleanup() {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		b.gameMessagesMu.Lock()
		now := time.Now()
		for accountID, ref := range b.gameMessages {
			if now.Sub(ref.Timestamp) > time.Hour {
				delete(b.gameMessages, accountID)
			}
		}
		b.gameMessagesMu.Unlock()
	}
}

// handleSessionTick edits the game message with the latest snapshot. Edits
// are throttled so fast tickers do not hammer the Discord API.
func (b *Bot) handleSessionTick(tick events.SessionTickEvent) {
	ref := b.getGameMessage(tick.AccountID)
	if ref == nil {
		return
	}

	b.gameMessagesMu.Lock()
	if time.Since(ref.lastEdit) < time.Second {
		b.gameMessagesMu.Unlock()
		return
	}
	ref.lastEdit = time.Now()
	b.gameMessagesMu.Unlock()

	embed := buildSessionEmbed(tick.Snapshot)
	components := buildSessionComponents(tick.Snapshot)

	_, err := b.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    ref.ChannelID,
		ID:         ref.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		log.WithError(err).Debug("Failed to edit game message on tick")
	}
}

// handleSessionSettled replaces the game message with the final result and
// strips the interactive components
func (b *Bot) handleSessionSettled(settled events.SessionSettledEvent) {
	ref := b.getGameMessage(settled.AccountID)
	b.removeGameMessage(settled.AccountID)
	if ref == nil {
		return
	}

	displayName := GetDisplayNameInt64(b.session, b.config.GuildID, settled.AccountID)
	embed := buildResultEmbed(settled.Result, displayName)
	empty := []discordgo.MessageComponent{}

	_, err := b.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    ref.ChannelID,
		ID:         ref.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &empty,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to edit game message on settlement")
	}
}

// parseAccountID converts a Discord snowflake into the engine's account id
func parseAccountID(userID string) (int64, error) {
	return strconv.ParseInt(userID, 10, 64)
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	switch name {
	case "balance":
		b.handleBalance(s, i)
	case "history":
		b.handleHistory(s, i)
	case "top":
		b.handleTop(s, i)
	case "tip":
		b.handleTip(s, i)
	case "grant":
		b.handleGrant(s, i)
	case "coinflip", "dice", "crash", "mines", "wheel", "penalty", "plinko", "streak":
		b.handleGameCommand(s, i, models.GameKind(name))
	}
}
