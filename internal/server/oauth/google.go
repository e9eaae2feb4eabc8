package oauth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gamix-app/auth-service/internal/netx"
)

// Google validates Google OAuth access tokens against the userinfo endpoint.
type Google struct {
	client *http.Client

	// Endpoint overrides for tests.
	UserInfoURL string
	RevokeURL   string
}

func NewGoogle(client *http.Client) *Google {
	return &Google{
		client:      client,
		UserInfoURL: "https://www.googleapis.com/userinfo/v2/me",
		RevokeURL:   "https://oauth2.googleapis.com/revoke",
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) UserData(ctx context.Context, token string) (*Identity, error) {
	var profile struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	headers := map[string]string{"Authorization": "Bearer " + token}
	if err := netx.GetJSON(ctx, g.client, g.UserInfoURL, headers, &profile); err != nil {
		return nil, err
	}
	return &Identity{Name: profile.Name, Email: profile.Email}, nil
}

func (g *Google) RevokeToken(ctx context.Context, token string) error {
	return netx.PostForm(ctx, g.client, g.RevokeURL, url.Values{"token": {token}}, nil)
}
