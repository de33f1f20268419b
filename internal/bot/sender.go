package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// MessageRef identifies the message a reply answers.
type MessageRef struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// Message is an inbound chat message that mentioned the bot.
type Message struct {
	MessageRef
	GuildName  string
	AuthorID   string
	AuthorName string
	Content    string
	BotName    string
}

// Sender delivers replies to the chat platform.
type Sender interface {
	Reply(ctx context.Context, ref MessageRef, embed *discordgo.MessageEmbed) error
	ReplyText(ctx context.Context, ref MessageRef, text string) error
	Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
	Typing(ctx context.Context, channelID string) error
}
