package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/cardindex/internal/discord"
	"github.com/fadedpez/cardindex/internal/types"
	"github.com/fadedpez/cardindex/pkg/cards"
)

// maxDrawAttempts bounds retries when the deck changes between read and write
const maxDrawAttempts = 3

// handleSlashCommand routes a slash command to its subcommand handler
func (b *Bot) handleSlashCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 || data.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		b.respondError(i, types.Newf(types.ErrInvalidCommand, "/%s needs a subcommand", data.Name))
		return
	}

	sub := data.Options[0]
	opts := optionMap(sub.Options)
	b.logger.Info("Command /%s %s in channel %s", data.Name, sub.Name, i.ChannelID)

	var (
		resp *discord.Response
		err  error
	)
	switch data.Name + " " + sub.Name {
	case "card show":
		resp, err = b.handleCardShow(opts)
	case "card parse":
		resp, err = b.handleCardParse(opts)
	case "card table":
		resp, err = b.handleCardTable(opts)
	case "deck new":
		resp, err = b.handleDeckNew(ctx, i.ChannelID)
	case "deck draw":
		resp, err = b.handleDeckDraw(ctx, i.ChannelID, opts)
	case "deck clear":
		resp, err = b.handleDeckClear(ctx, i.ChannelID)
	case "deck show":
		resp, err = b.handleDeckShow(ctx, i.ChannelID, opts)
	case "deck find":
		resp, err = b.handleDeckFind(ctx, opts)
	default:
		err = types.Newf(types.ErrInvalidCommand, "unknown command /%s %s", data.Name, sub.Name)
	}

	if err != nil {
		b.respondError(i, err)
		return
	}
	b.respond(i, resp)
}

// handleCardShow formats the card at an index
func (b *Bot) handleCardShow(opts options) (*discord.Response, error) {
	f, err := b.format(opts)
	if err != nil {
		return nil, err
	}

	opt, ok := opts["index"]
	if !ok {
		return nil, types.New(types.ErrInvalidArgument, "index is required")
	}
	index := opt.IntValue()
	if index < 0 || index > 255 {
		return nil, types.Newf(types.ErrInvalidIndex, "card index %d out of range [0, %d]", index, cards.DeckSize-1)
	}

	card, err := cards.Card{}.FromIndex(uint8(index))
	if err != nil {
		return nil, err
	}

	return discord.NewResponse(fmt.Sprintf("`%s` is the %s (index %d)", f.Format(card), card.Name(), card.Index())), nil
}

// handleCardParse parses a token with the requested table
func (b *Bot) handleCardParse(opts options) (*discord.Response, error) {
	f, err := b.format(opts)
	if err != nil {
		return nil, err
	}

	opt, ok := opts["token"]
	if !ok {
		return nil, types.New(types.ErrInvalidArgument, "token is required")
	}

	card, err := f.Parse(opt.StringValue())
	if err != nil {
		return nil, err
	}

	return discord.NewResponse(fmt.Sprintf("`%s` is the %s (index %d)", f.Format(card), card.Name(), card.Index())), nil
}

// handleCardTable lists every token, one suit per line
func (b *Bot) handleCardTable(opts options) (*discord.Response, error) {
	f, err := b.format(opts)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, suit := range cards.All[cards.Suit]() {
		sb.WriteString(suit.Name())
		sb.WriteString(":")
		for _, rank := range cards.All[cards.Rank]() {
			sb.WriteString(" ")
			sb.WriteString(f.Format(cards.NewCard(rank, suit)))
		}
		sb.WriteString("\n")
	}

	return discord.NewEphemeralResponse(sb.String()), nil
}

// handleDeckNew replaces the channel's deck with a full ordered deck
func (b *Bot) handleDeckNew(ctx context.Context, channelID string) (*discord.Response, error) {
	unlock := b.lockChannel(channelID)
	defer unlock()

	record, err := b.repo.SaveDeck(ctx, channelID, cards.NewDeck())
	if err != nil {
		return nil, err
	}

	return discord.NewResponse(fmt.Sprintf("New deck ready with %d cards.", len(record.Cards))), nil
}

// handleDeckDraw draws from the channel's deck and stores what is left
func (b *Bot) handleDeckDraw(ctx context.Context, channelID string, opts options) (*discord.Response, error) {
	f, err := b.format(opts)
	if err != nil {
		return nil, err
	}

	count := 1
	if opt, ok := opts["count"]; ok {
		count = int(opt.IntValue())
	}
	if count < 1 {
		return nil, types.Newf(types.ErrInvalidArgument, "count must be at least 1, got %d", count)
	}

	unlock := b.lockChannel(channelID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		record, err := b.repo.GetDeck(ctx, channelID)
		if err != nil {
			return nil, err
		}

		d := record.Deck()
		drawn := d.Draw(count)
		if len(drawn) == 0 {
			return nil, types.New(types.ErrDeckEmpty, "the deck is empty, start a new one with /deck new")
		}

		// Another process may have drawn since GetDeck
		_, err = b.repo.UpdateDeck(ctx, channelID, record.Revision, d)
		if types.Is(err, types.ErrConflict) && attempt < maxDrawAttempts {
			b.logger.Debug("Deck for channel %s changed during draw, retrying", channelID)
			continue
		}
		if err != nil {
			return nil, err
		}

		return discord.NewResponse(fmt.Sprintf("Drew %s (%d left)", joinTokens(f, drawn), d.Len())), nil
	}
}

// handleDeckClear removes the channel's deck
func (b *Bot) handleDeckClear(ctx context.Context, channelID string) (*discord.Response, error) {
	unlock := b.lockChannel(channelID)
	defer unlock()

	if err := b.repo.DeleteDeck(ctx, channelID); err != nil {
		return nil, err
	}

	return discord.NewResponse("Deck cleared."), nil
}

// handleDeckShow lists the cards left in the channel's deck
func (b *Bot) handleDeckShow(ctx context.Context, channelID string, opts options) (*discord.Response, error) {
	f, err := b.format(opts)
	if err != nil {
		return nil, err
	}

	record, err := b.repo.GetDeck(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if len(record.Cards) == 0 {
		return discord.NewEphemeralResponse("The deck is empty."), nil
	}

	return discord.NewEphemeralResponse(fmt.Sprintf("%d cards left: %s", len(record.Cards), joinTokens(f, record.Cards))), nil
}

// handleDeckFind lists channels whose deck still holds a card
func (b *Bot) handleDeckFind(ctx context.Context, opts options) (*discord.Response, error) {
	finder, ok := b.repo.(CardFinder)
	if !ok {
		return nil, types.New(types.ErrInvalidCommand, "card search is not enabled")
	}

	f, err := b.format(opts)
	if err != nil {
		return nil, err
	}

	opt, ok := opts["card"]
	if !ok {
		return nil, types.New(types.ErrInvalidArgument, "card is required")
	}
	card, err := f.Parse(opt.StringValue())
	if err != nil {
		return nil, err
	}

	channels, err := finder.FindChannelsWithCard(ctx, card)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return discord.NewEphemeralResponse(fmt.Sprintf("No deck holds the %s.", card.Name())), nil
	}

	mentions := make([]string, len(channels))
	for i, channelID := range channels {
		mentions[i] = "<#" + channelID + ">"
	}
	return discord.NewEphemeralResponse(fmt.Sprintf("The %s is still in: %s", card.Name(), strings.Join(mentions, ", "))), nil
}

// format picks the formatter named by the "case" option, falling back to the configured default
func (b *Bot) format(opts options) (cards.Formatter[cards.Card], error) {
	name := b.config.CardCase
	if opt, ok := opts["case"]; ok {
		name = opt.StringValue()
	}

	f, ok := b.formats[name]
	if !ok {
		return nil, types.Newf(types.ErrInvalidArgument, "unknown case %q", name)
	}
	return f, nil
}

func (b *Bot) respond(i *discordgo.InteractionCreate, resp *discord.Response) {
	if err := discord.SendResponse(b.session, i, resp); err != nil {
		b.logger.Error("Error sending response: %v", err)
	}
}

func (b *Bot) respondError(i *discordgo.InteractionCreate, err error) {
	b.logger.LogError(err)
	if err := discord.SendErrorResponse(b.session, i, err); err != nil {
		b.logger.Error("Error sending error response: %v", err)
	}
}

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func joinTokens(f cards.Formatter[cards.Card], cs []cards.Card) string {
	return strings.Join(cards.FormatAll(f, cs), " ")
}
