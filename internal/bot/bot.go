package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/cardindex/internal/config"
	"github.com/fadedpez/cardindex/internal/discord"
	"github.com/fadedpez/cardindex/internal/logging"
	"github.com/fadedpez/cardindex/pkg/cards"
	"github.com/fadedpez/cardindex/pkg/repositories/deck"
)

// CardFinder is implemented by repositories that can search decks by card
type CardFinder interface {
	FindChannelsWithCard(ctx context.Context, card cards.Card) ([]string, error)
}

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config     *config.Config
	session    discord.SessionHandler
	repo       deck.Repository
	logger     *logging.Logger
	formats    map[string]cards.Formatter[cards.Card]
	commands   []*discordgo.ApplicationCommand
	shutdownWg sync.WaitGroup

	// One mutex per channel ID, serializing deck changes within this process
	channelLocks sync.Map
}

// New creates a new instance of Bot
func New(cfg *config.Config, session discord.SessionHandler, repo deck.Repository, logger *logging.Logger) *Bot {
	if logger == nil {
		logger = logging.Default
	}

	bot := &Bot{
		config:   cfg,
		session:  session,
		repo:     repo,
		logger:   logger,
		formats:  newFormats(),
		commands: make([]*discordgo.ApplicationCommand, 0, len(Commands)),
	}

	session.AddHandler(bot.handleInteractionCreate)

	return bot
}

func newFormats() map[string]cards.Formatter[cards.Card] {
	return map[string]cards.Formatter[cards.Card]{
		config.CaseUpper:  cards.NewUpperCaseCardFormat(),
		config.CaseLower:  cards.NewLowerCaseCardFormat(),
		config.CaseSymbol: cards.NewSymbolCardFormat(),
	}
}

// Start connects to Discord and registers the slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the bot
func (b *Bot) Shutdown() {
	// Cleanup commands if in development
	if b.config.IsDevelopment() {
		b.cleanupCommands()
	}

	if err := b.session.Close(); err != nil {
		b.logger.Error("Error closing Discord session: %v", err)
	}

	// Wait for any ongoing operations to complete
	b.shutdownWg.Wait()

	if err := b.repo.Close(); err != nil {
		b.logger.Error("Error closing repository: %v", err)
	}
}

func (b *Bot) registerCommands() error {
	for _, cmd := range Commands {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create %q command: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
		b.logger.Debug("Registered command %s", cmd.Name)
	}
	return nil
}

func (b *Bot) cleanupCommands() {
	for _, cmd := range b.commands {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			b.logger.Warn("Cannot delete %q command: %v", cmd.Name, err)
		}
	}
	b.commands = b.commands[:0]
}

// lockChannel serializes deck changes for a channel and returns the unlock func
func (b *Bot) lockChannel(channelID string) func() {
	v, _ := b.channelLocks.LoadOrStore(channelID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// handleInteractionCreate handles Discord interaction events
func (b *Bot) handleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	b.shutdownWg.Add(1)
	defer b.shutdownWg.Done()

	b.handleSlashCommand(context.Background(), i)
}
