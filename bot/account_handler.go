package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"croupier/models"
	"croupier/service"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	accountID, err := parseAccountID(i.Member.User.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", i.Member.User.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	account, err := b.accountService.GetOrCreateAccount(ctx, accountID, i.Member.User.Username)
	if err != nil {
		log.WithError(err).Errorf("Error getting account %d", accountID)
		b.respondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	displayName := GetDisplayName(s, i.GuildID, i.Member.User.ID)
	message := fmt.Sprintf("%s, your balances: **%s tokens** / **%s credits** (total %s)",
		displayName, FormatBalance(account.Tokens), FormatBalance(account.Credits),
		FormatBalance(account.TotalBalance()))

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.WithError(err).Error("Error responding to balance command")
	}
}

var historyEmojis = map[models.EntryType]string{
	models.EntryTypeWin:         "🎉",
	models.EntryTypeLoss:        "😔",
	models.EntryTypeAdminAdd:    "🎁",
	models.EntryTypeTipSent:     "📤",
	models.EntryTypeTipReceived: "📥",
	models.EntryTypeDeposit:     "⬆️",
	models.EntryTypeWithdraw:    "⬇️",
}

func formatHistoryEntry(entry *models.HistoryEntry) string {
	emoji := historyEmojis[entry.Type]

	switch entry.Type {
	case models.EntryTypeWin:
		line := fmt.Sprintf("%s won **%s** on %s", emoji, FormatBalance(entry.Amount), entry.Game)
		if entry.Multiplier != nil {
			line += fmt.Sprintf(" (x%.2f)", *entry.Multiplier)
		}
		return line + " " + FormatDiscordTimestamp(entry.CreatedAt, "R")
	case models.EntryTypeLoss:
		return fmt.Sprintf("%s lost **%s** on %s %s",
			emoji, FormatBalance(entry.Amount), entry.Game, FormatDiscordTimestamp(entry.CreatedAt, "R"))
	default:
		return fmt.Sprintf("%s %s **%s** %s",
			emoji, strings.ReplaceAll(string(entry.Type), "_", " "),
			FormatBalance(entry.Amount), FormatDiscordTimestamp(entry.CreatedAt, "R"))
	}
}

func (b *Bot) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	accountID, err := parseAccountID(i.Member.User.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", i.Member.User.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	limit := 10
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "count" {
			limit = int(opt.IntValue())
		}
	}

	entries, err := b.accountService.GetHistory(ctx, accountID, limit)
	if err != nil {
		log.WithError(err).Errorf("Error getting history for account %d", accountID)
		b.respondWithError(s, i, "Unable to retrieve history. Please try again.")
		return
	}

	if len(entries) == 0 {
		b.respondWithError(s, i, "No history yet. Play a game first!")
		return
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, formatHistoryEntry(entry))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📜 Recent History",
		Color:       colorGray,
		Description: strings.Join(lines, "\n"),
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Error("Error responding to history command")
	}
}

func (b *Bot) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	accounts, err := b.accountService.GetTopAccounts(ctx, 10)
	if err != nil {
		log.WithError(err).Error("Error getting top accounts")
		b.respondWithError(s, i, "Unable to retrieve the scoreboard. Please try again.")
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	lines := make([]string, 0, len(accounts))
	for idx, account := range accounts {
		rank := fmt.Sprintf("%d.", idx+1)
		if idx < len(medals) {
			rank = medals[idx]
		}
		lines = append(lines, fmt.Sprintf("%s **%s** — %s total (%s tokens / %s credits)",
			rank, account.Username, FormatBalance(account.TotalBalance()),
			FormatBalance(account.Tokens), FormatBalance(account.Credits)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Scoreboard",
		Color:       colorGreen,
		Description: strings.Join(lines, "\n"),
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.WithError(err).Error("Error responding to top command")
	}
}

func (b *Bot) handleTip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount int64
	var recipientUser *discordgo.User
	currency := models.CurrencyTokens
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipientUser = opt.UserValue(s)
		case "currency":
			currency = models.Currency(opt.StringValue())
		}
	}

	if recipientUser == nil {
		b.respondWithError(s, i, "Invalid recipient.")
		return
	}
	if recipientUser.Bot {
		b.respondWithError(s, i, "Bots cannot hold a balance.")
		return
	}

	fromID, err := parseAccountID(i.Member.User.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing sender Discord ID %s", i.Member.User.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	toID, err := parseAccountID(recipientUser.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing recipient Discord ID %s", recipientUser.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Both sides must exist before the transfer
	if _, err := b.accountService.GetOrCreateAccount(ctx, fromID, i.Member.User.Username); err != nil {
		log.WithError(err).Errorf("Error getting/creating sender account %d", fromID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if _, err := b.accountService.GetOrCreateAccount(ctx, toID, recipientUser.Username); err != nil {
		log.WithError(err).Errorf("Error getting/creating recipient account %d", toID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := b.accountService.Tip(ctx, fromID, toID, currency, amount); err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientFunds):
			b.respondWithError(s, i, "Insufficient balance for this tip.")
		case errors.Is(err, service.ErrInvalidAmount):
			b.respondWithError(s, i, "Invalid tip amount.")
		default:
			log.WithError(err).Errorf("Error tipping %d %s from %d to %d", amount, currency, fromID, toID)
			b.respondWithError(s, i, "Unable to process the tip. Please try again.")
		}
		return
	}

	senderName := GetDisplayName(s, i.GuildID, i.Member.User.ID)
	recipientName := GetDisplayName(s, i.GuildID, recipientUser.ID)
	message := fmt.Sprintf("✅ **%s** sent **%s %s** to **%s**",
		senderName, FormatBalance(amount), currency, recipientName)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.WithError(err).Error("Error responding to tip command")
	}
}

func (b *Bot) handleGrant(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		b.respondWithError(s, i, "Only administrators can grant balances.")
		return
	}

	var amount int64
	var targetUser *discordgo.User
	currency := models.CurrencyCredits
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			targetUser = opt.UserValue(s)
		case "currency":
			currency = models.Currency(opt.StringValue())
		}
	}

	if targetUser == nil {
		b.respondWithError(s, i, "Invalid target user.")
		return
	}

	targetID, err := parseAccountID(targetUser.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing target Discord ID %s", targetUser.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := b.accountService.GetOrCreateAccount(ctx, targetID, targetUser.Username); err != nil {
		log.WithError(err).Errorf("Error getting/creating target account %d", targetID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := b.accountService.AdminGrant(ctx, targetID, currency, amount); err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			b.respondWithError(s, i, "Invalid grant amount.")
		} else {
			log.WithError(err).Errorf("Error granting %d %s to %d", amount, currency, targetID)
			b.respondWithError(s, i, "Unable to process the grant. Please try again.")
		}
		return
	}

	targetName := GetDisplayName(s, i.GuildID, targetUser.ID)
	message := fmt.Sprintf("🎁 Granted **%s %s** to **%s**",
		FormatBalance(amount), currency, targetName)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.WithError(err).Error("Error responding to grant command")
	}
}
