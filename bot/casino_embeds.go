package bot

import (
	"fmt"
	"strings"

	"croupier/games"
	"croupier/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorGreen  = 0x2ECC71
	colorRed    = 0xE74C3C
	colorGray   = 0x95A5A6
	colorOrange = 0xE67E22
)

var gameTitles = map[models.GameKind]string{
	models.GameCoinflip: "🪙 Coinflip",
	models.GameDice:     "🎲 Dice",
	models.GameCrash:    "🚀 Crash",
	models.GameMines:    "💣 Mines",
	models.GameWheel:    "🎡 Wheel",
	models.GamePenalty:  "⚽ Penalty",
	models.GamePlinko:   "🔴 Plinko",
	models.GameStreak:   "🔥 Streak",
}

func formatStake(stake models.Stake) string {
	switch {
	case stake.Tokens > 0 && stake.Credits > 0:
		return fmt.Sprintf("%s tokens + %s credits", FormatBalance(stake.Tokens), FormatBalance(stake.Credits))
	case stake.Credits > 0:
		return fmt.Sprintf("%s credits", FormatBalance(stake.Credits))
	default:
		return fmt.Sprintf("%s tokens", FormatBalance(stake.Tokens))
	}
}

// buildSessionEmbed renders the live state of an interactive session
func buildSessionEmbed(snap models.SessionSnapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: gameTitles[snap.Kind],
		Color: colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stake", Value: formatStake(snap.Stake), Inline: true},
		},
	}

	switch snap.Kind {
	case models.GameCrash:
		embed.Description = fmt.Sprintf("The multiplier is climbing... **x%.2f**", snap.Multiplier)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Cash out now for", Value: fmt.Sprintf("x%.2f", snap.Multiplier), Inline: true,
		})

	case models.GameMines:
		embed.Description = renderMinesBoard(snap)
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Mines", Value: fmt.Sprintf("%d", snap.MineCount), Inline: true},
			&discordgo.MessageEmbedField{Name: "Revealed", Value: fmt.Sprintf("%d", snap.Revealed), Inline: true},
			&discordgo.MessageEmbedField{Name: "Multiplier", Value: fmt.Sprintf("x%.2f", snap.Multiplier), Inline: true},
		)

	case models.GameStreak:
		embed.Description = "Call the next flip or cash out."
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Round", Value: fmt.Sprintf("%d", snap.Round), Inline: true},
			&discordgo.MessageEmbedField{Name: "Multiplier", Value: fmt.Sprintf("x%.2f", snap.Multiplier), Inline: true},
		)
	}

	return embed
}

// renderMinesBoard draws the 5x5 grid. Mine positions only appear once the
// session has settled.
func renderMinesBoard(snap models.SessionSnapshot) string {
	revealed := make(map[int]bool, len(snap.RevealedTiles))
	for _, pos := range snap.RevealedTiles {
		revealed[pos] = true
	}
	mines := make(map[int]bool, len(snap.Mines))
	for _, pos := range snap.Mines {
		mines[pos] = true
	}

	var board strings.Builder
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			pos := row*5 + col
			switch {
			case mines[pos]:
				board.WriteString("💥")
			case revealed[pos]:
				board.WriteString("✅")
			default:
				board.WriteString("🟦")
			}
		}
		board.WriteString("\n")
	}
	return board.String()
}

// tileLabel names a board cell A1 through E5
func tileLabel(pos int) string {
	return fmt.Sprintf("%c%d", 'A'+pos/5, pos%5+1)
}

// buildSessionComponents builds the interactive controls for a live session
func buildSessionComponents(snap models.SessionSnapshot) []discordgo.MessageComponent {
	switch snap.Kind {
	case models.GameCrash:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Cash Out",
					Style:    discordgo.SuccessButton,
					CustomID: "casino_cashout",
				},
			}},
		}

	case models.GameMines:
		revealed := make(map[int]bool, len(snap.RevealedTiles))
		for _, pos := range snap.RevealedTiles {
			revealed[pos] = true
		}

		var options []discordgo.SelectMenuOption
		for pos := 0; pos < games.MinesGridSize; pos++ {
			if revealed[pos] {
				continue
			}
			options = append(options, discordgo.SelectMenuOption{
				Label: tileLabel(pos),
				Value: fmt.Sprintf("%d", pos),
			})
		}

		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "casino_pick",
					Placeholder: "Pick a tile",
					Options:     options,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Cash Out",
					Style:    discordgo.SuccessButton,
					CustomID: "casino_cashout",
					Disabled: snap.Revealed == 0,
				},
			}},
		}

	case models.GameStreak:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Heads",
					Style:    discordgo.PrimaryButton,
					CustomID: "casino_guess_heads",
				},
				discordgo.Button{
					Label:    "Tails",
					Style:    discordgo.PrimaryButton,
					CustomID: "casino_guess_tails",
				},
				discordgo.Button{
					Label:    "Cash Out",
					Style:    discordgo.SuccessButton,
					CustomID: "casino_cashout",
					Disabled: snap.Round == 0,
				},
			}},
		}
	}

	return nil
}

// buildResultEmbed renders a settled session
func buildResultEmbed(result models.SettlementResult, displayName string) *discordgo.MessageEmbed {
	title := gameTitles[result.Kind]

	switch result.Disposition {
	case models.DispositionWin:
		return &discordgo.MessageEmbed{
			Title: title,
			Color: colorGreen,
			Description: fmt.Sprintf("🎉 **%s** won **%s credits** (x%.2f) on a %s stake!",
				displayName, FormatBalance(result.Payout), result.Multiplier, formatStake(result.Stake)),
		}
	case models.DispositionRefund:
		return &discordgo.MessageEmbed{
			Title: title,
			Color: colorGray,
			Description: fmt.Sprintf("↩️ **%s**'s stake of %s was refunded.",
				displayName, formatStake(result.Stake)),
		}
	default:
		return &discordgo.MessageEmbed{
			Title: title,
			Color: colorRed,
			Description: fmt.Sprintf("😔 **%s** lost a %s stake.",
				displayName, formatStake(result.Stake)),
		}
	}
}
