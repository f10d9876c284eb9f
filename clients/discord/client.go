package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordClient is the notification surface this service needs from Discord
type DiscordClient interface {
	SendDirectMessage(discordUserID, content string) error
	SendChannelMessage(channelID, content string) error
}

// Client implements DiscordClient using the discordgo SDK with a bot token
type Client struct {
	session *discordgo.Session
}

func NewDiscordClient(botToken string) (*Client, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return &Client{session: session}, nil
}

// SendDirectMessage opens (or reuses) a DM channel with the user and
// posts the message there
func (c *Client) SendDirectMessage(discordUserID, content string) error {
	channel, err := c.session.UserChannelCreate(discordUserID)
	if err != nil {
		return fmt.Errorf("failed to open discord DM channel: %w", err)
	}

	if _, err := c.session.ChannelMessageSend(channel.ID, content); err != nil {
		return fmt.Errorf("failed to send discord DM: %w", err)
	}

	return nil
}

func (c *Client) SendChannelMessage(channelID, content string) error {
	if _, err := c.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("failed to send discord channel message: %w", err)
	}

	return nil
}
