package oauth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gamix-app/auth-service/internal/netx"
)

// LinkedIn validates LinkedIn OAuth access tokens against the OpenID
// userinfo endpoint.
type LinkedIn struct {
	client       *http.Client
	clientID     string
	clientSecret string

	// Endpoint overrides for tests.
	UserInfoURL string
	RevokeURL   string
}

func NewLinkedIn(client *http.Client, clientID, clientSecret string) *LinkedIn {
	return &LinkedIn{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
		UserInfoURL:  "https://api.linkedin.com/v2/userinfo",
		RevokeURL:    "https://www.linkedin.com/oauth/v2/revoke",
	}
}

func (l *LinkedIn) Name() string { return "linkedin" }

func (l *LinkedIn) UserData(ctx context.Context, token string) (*Identity, error) {
	var profile struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	headers := map[string]string{"Authorization": "Bearer " + token}
	if err := netx.GetJSON(ctx, l.client, l.UserInfoURL, headers, &profile); err != nil {
		return nil, err
	}
	return &Identity{Name: profile.Name, Email: profile.Email}, nil
}

func (l *LinkedIn) RevokeToken(ctx context.Context, token string) error {
	form := url.Values{
		"client_id":     {l.clientID},
		"client_secret": {l.clientSecret},
		"token":         {token},
	}
	return netx.PostForm(ctx, l.client, l.RevokeURL, form, nil)
}
