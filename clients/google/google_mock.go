package google

import "context"

// MockOAuthClient implements OAuthClient for testing
type MockOAuthClient struct {
	MockAuthCodeURL   func(state string) string
	MockExchange      func(ctx context.Context, code string) (*TokenResult, error)
	MockFetchUserInfo func(ctx context.Context, accessToken string) (*UserInfo, error)

	ExchangeCalls      int
	FetchUserInfoCalls int
}

// NewMockOAuthClient creates a new mock OAuth client
func NewMockOAuthClient() *MockOAuthClient {
	return &MockOAuthClient{}
}

func (m *MockOAuthClient) AuthCodeURL(state string) string {
	if m.MockAuthCodeURL != nil {
		return m.MockAuthCodeURL(state)
	}
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *MockOAuthClient) Exchange(ctx context.Context, code string) (*TokenResult, error) {
	m.ExchangeCalls++
	if m.MockExchange != nil {
		return m.MockExchange(ctx, code)
	}

	// Default mock response for testing
	return &TokenResult{AccessToken: "ya29.test-access-token"}, nil
}

func (m *MockOAuthClient) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	m.FetchUserInfoCalls++
	if m.MockFetchUserInfo != nil {
		return m.MockFetchUserInfo(ctx, accessToken)
	}

	// Default mock response
	return &UserInfo{
		ID:      "google-user-123",
		Email:   "test@example.com",
		Name:    "Test User",
		Picture: "https://example.com/avatar.png",
	}, nil
}
