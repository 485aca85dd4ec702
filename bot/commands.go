package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func amountOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "amount",
		Description: "Amount to wager (number, all, half, 50%, 2.5k, 1m)",
		Required:    true,
	}
}

func currencyOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "currency",
		Description: "Wager from a single currency instead of the combined balance",
		Required:    false,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "tokens", Value: "tokens"},
			{Name: "credits", Value: "credits"},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your token and credit balances",
		},
		{
			Name:        "history",
			Description: "Show your recent game and transfer history",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "Number of entries to show (default 10)",
					Required:    false,
				},
			},
		},
		{
			Name:        "top",
			Description: "Show the richest players",
		},
		{
			Name:        "tip",
			Description: "Send part of your balance to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to tip",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to send",
					Required:    true,
				},
				currencyOption(),
			},
		},
		{
			Name:        "grant",
			Description: "Credit a player's balance (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to credit",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to grant",
					Required:    true,
				},
				currencyOption(),
			},
		},
		{
			Name:        "coinflip",
			Description: "Flip a coin, 1.95x on a correct call",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "The side you call",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "heads", Value: "heads"},
						{Name: "tails", Value: "tails"},
					},
				},
				amountOption(),
				currencyOption(),
			},
		},
		{
			Name:        "dice",
			Description: "Roll against the house, higher roll wins 1.9x",
			Options:     []*discordgo.ApplicationCommandOption{amountOption(), currencyOption()},
		},
		{
			Name:        "crash",
			Description: "Ride the multiplier and cash out before it crashes",
			Options:     []*discordgo.ApplicationCommandOption{amountOption(), currencyOption()},
		},
		{
			Name:        "mines",
			Description: "Reveal safe tiles and cash out before hitting a mine",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption(),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "mines",
					Description: "Number of mines on the board (1-24, default 3)",
					Required:    false,
				},
				currencyOption(),
			},
		},
		{
			Name:        "wheel",
			Description: "Spin the wheel for up to 5x",
			Options:     []*discordgo.ApplicationCommandOption{amountOption(), currencyOption()},
		},
		{
			Name:        "penalty",
			Description: "Take a penalty shot past the keeper for 1.5x",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "direction",
					Description: "Where to shoot",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "left", Value: "left"},
						{Name: "middle", Value: "middle"},
						{Name: "right", Value: "right"},
					},
				},
				amountOption(),
				currencyOption(),
			},
		},
		{
			Name:        "plinko",
			Description: "Drop a ball down the board, edge slots pay 5.6x",
			Options:     []*discordgo.ApplicationCommandOption{amountOption(), currencyOption()},
		},
		{
			Name:        "streak",
			Description: "Chain coinflip guesses, each correct call multiplies by 1.96x",
			Options:     []*discordgo.ApplicationCommandOption{amountOption(), currencyOption()},
		},
	}

	// With a guild id commands register instantly for that guild; without one
	// they register globally and take up to an hour to propagate
	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
