package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"croupier/models"
	"croupier/service"

	"github.com/bwmarrin/discordgo"
)

// handleGameCommand handles all eight game slash commands
func (b *Bot) handleGameCommand(s *discordgo.Session, i *discordgo.InteractionCreate, kind models.GameKind) {
	ctx := context.Background()

	accountID, err := parseAccountID(i.Member.User.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", i.Member.User.ID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Auto-register on first contact
	if _, err := b.accountService.GetOrCreateAccount(ctx, accountID, i.Member.User.Username); err != nil {
		log.WithError(err).Errorf("Error getting/creating account %d", accountID)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	req := service.WagerRequest{AccountID: accountID, Kind: kind}
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			req.RawAmount = opt.StringValue()
		case "currency":
			currency := models.Currency(opt.StringValue())
			req.CurrencyHint = &currency
		case "side":
			req.Params.CoinSide = opt.StringValue()
		case "mines":
			req.Params.MineCount = int(opt.IntValue())
		case "direction":
			req.Params.ShotDirection = opt.StringValue()
		}
	}

	receipt, err := b.casinoService.Play(ctx, req)
	if err != nil {
		b.respondWithError(s, i, playErrorMessage(err))
		return
	}

	displayName := GetDisplayName(s, i.GuildID, i.Member.User.ID)

	// Instant games settle inside Play and carry their result
	if receipt.Result != nil {
		embed := buildResultEmbed(*receipt.Result, displayName)
		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
			},
		})
		if err != nil {
			log.WithError(err).Errorf("Error responding to %s command", kind)
		}
		return
	}

	// Interactive games get a live message driven by session events
	embed := buildSessionEmbed(receipt.Snapshot)
	components := buildSessionComponents(receipt.Snapshot)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.WithError(err).Errorf("Error responding to %s command", kind)
		return
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.WithError(err).Error("Error fetching interaction response message")
		return
	}
	b.saveGameMessage(accountID, i.ChannelID, msg.ID)
}

// handleCasinoInteraction routes button clicks and tile picks on live game
// messages to the session engine
func (b *Bot) handleCasinoInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, "casino_") {
		return
	}

	accountID, err := parseAccountID(i.Member.User.ID)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", i.Member.User.ID)
		return
	}

	// Only the session owner may drive the message
	ref := b.getGameMessage(accountID)
	if ref == nil || i.Message == nil || ref.MessageID != i.Message.ID {
		b.respondWithError(s, i, "This is not your game.")
		return
	}

	var action service.PlayerAction
	switch customID {
	case "casino_cashout":
		action = service.PlayerAction{Kind: service.ActionCashOut}
	case "casino_guess_heads":
		action = service.PlayerAction{Kind: service.ActionGuess, Guess: "heads"}
	case "casino_guess_tails":
		action = service.PlayerAction{Kind: service.ActionGuess, Guess: "tails"}
	case "casino_pick":
		values := i.MessageComponentData().Values
		if len(values) == 0 {
			return
		}
		tile, err := strconv.Atoi(values[0])
		if err != nil {
			return
		}
		action = service.PlayerAction{Kind: service.ActionPick, Tile: tile}
	default:
		return
	}

	if err := b.casinoService.SubmitAction(accountID, action); err != nil {
		b.respondWithError(s, i, "You have no active game.")
		return
	}

	// Ack without touching the message; tick and settlement events drive
	// the rendering
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.WithError(err).Debug("Error acknowledging component interaction")
	}
}

func playErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrAlreadyActive):
		return "You already have a game in progress. Finish it first."
	case errors.Is(err, service.ErrInsufficientFunds):
		return "Insufficient balance for this wager."
	case errors.Is(err, service.ErrInvalidAmount):
		return "That amount could not be parsed. Try a number, all, half, 50% or 2.5k."
	default:
		return "Unable to start the game. Please try again."
	}
}
