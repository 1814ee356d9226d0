package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/cardindex/internal/types"
)

// ResponseEmoji maps error codes to appropriate emojis
var ResponseEmoji = map[types.ErrorCode]string{
	types.ErrNotFound:        "🔍",
	types.ErrInvalidIndex:    "🔢",
	types.ErrSizeMismatch:    "📏",
	types.ErrDuplicateToken:  "👯",
	types.ErrDeckEmpty:       "🫙",
	types.ErrDeckNotFound:    "🃏",
	types.ErrConflict:        "🔁",
	types.ErrInvalidArgument: "❗",
	types.ErrInvalidCommand:  "⛔",
	types.ErrDatabaseError:   "💾",
	types.ErrInternalError:   "💥",
}

// Response represents a Discord interaction response
type Response struct {
	Content   string
	Ephemeral bool
}

// NewResponse creates a new Response visible to the whole channel
func NewResponse(content string) *Response {
	return &Response{
		Content: content,
	}
}

// NewEphemeralResponse creates a new ephemeral Response (only visible to the user)
func NewEphemeralResponse(content string) *Response {
	return &Response{
		Content:   content,
		Ephemeral: true,
	}
}

// NewErrorResponse creates a new error Response
func NewErrorResponse(err error) *Response {
	var codedErr *types.Error
	if types.As(err, &codedErr) {
		emoji := ResponseEmoji[codedErr.Code]
		if emoji == "" {
			emoji = "❌"
		}
		return NewEphemeralResponse(fmt.Sprintf("%s %s", emoji, codedErr.Message))
	}
	return NewEphemeralResponse(fmt.Sprintf("❌ An error occurred: %v", err))
}

// SendResponse sends a response to a Discord interaction
func SendResponse(s SessionHandler, i *discordgo.InteractionCreate, r *Response) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: r.Content,
			Flags:   getFlags(r.Ephemeral),
		},
	})
}

// SendErrorResponse sends an error response
func SendErrorResponse(s SessionHandler, i *discordgo.InteractionCreate, err error) error {
	return SendResponse(s, i, NewErrorResponse(err))
}

// Helper functions

func getFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}
