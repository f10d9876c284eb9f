package discord

// MockDiscordClient implements DiscordClient interface for testing
type MockDiscordClient struct {
	MockSendDirectMessage  func(discordUserID, content string) error
	MockSendChannelMessage func(channelID, content string) error

	SentMessages []string
}

// NewMockDiscordClient creates a new mock Discord client
func NewMockDiscordClient() *MockDiscordClient {
	return &MockDiscordClient{}
}

func (m *MockDiscordClient) SendDirectMessage(discordUserID, content string) error {
	m.SentMessages = append(m.SentMessages, content)
	if m.MockSendDirectMessage != nil {
		return m.MockSendDirectMessage(discordUserID, content)
	}
	return nil
}

func (m *MockDiscordClient) SendChannelMessage(channelID, content string) error {
	m.SentMessages = append(m.SentMessages, content)
	if m.MockSendChannelMessage != nil {
		return m.MockSendChannelMessage(channelID, content)
	}
	return nil
}
