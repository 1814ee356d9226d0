package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/cardindex/internal/config"
	"github.com/fadedpez/cardindex/pkg/cards"
)

var (
	minIndex = 0.0
	minCount = 1.0
)

var caseOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "case",
	Description: "Token style",
	Choices: []*discordgo.ApplicationCommandOptionChoice{
		{Name: "upper (AS)", Value: config.CaseUpper},
		{Name: "lower (as)", Value: config.CaseLower},
		{Name: "symbol (A♠)", Value: config.CaseSymbol},
	},
}

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "card",
		Description: "Look up playing cards",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Show the card at an index",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "index",
						Description: "Card index, 0 is the ace of spades",
						Required:    true,
						MinValue:    &minIndex,
						MaxValue:    cards.DeckSize - 1,
					},
					caseOption,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "parse",
				Description: "Find the card a token names",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "token",
						Description: "Card token such as 10D",
						Required:    true,
					},
					caseOption,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "table",
				Description: "List every card token",
				Options:     []*discordgo.ApplicationCommandOption{caseOption},
			},
		},
	},
	{
		Name:        "deck",
		Description: "Manage this channel's deck",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "new",
				Description: "Start a fresh ordered deck",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "draw",
				Description: "Draw cards from the top of the deck",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "count",
						Description: "How many cards to draw",
						MinValue:    &minCount,
						MaxValue:    cards.DeckSize,
					},
					caseOption,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "clear",
				Description: "Throw away this channel's deck",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "List the cards left in the deck",
				Options:     []*discordgo.ApplicationCommandOption{caseOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "find",
				Description: "Find channels whose deck still holds a card",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "card",
						Description: "Card token such as QH",
						Required:    true,
					},
					caseOption,
				},
			},
		},
	},
}
