package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gamix-app/auth-service/internal/netx"
)

// GitHub validates GitHub OAuth access tokens. The base profile does not
// include an email, so a second call fetches the primary verified address;
// an account without one still validates, with an empty email.
type GitHub struct {
	client       *http.Client
	clientID     string
	clientSecret string

	// Endpoint overrides for tests.
	UserURL   string
	EmailsURL string
	RevokeURL string
}

func NewGitHub(client *http.Client, clientID, clientSecret string) *GitHub {
	return &GitHub{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
		UserURL:      "https://api.github.com/user",
		EmailsURL:    "https://api.github.com/user/emails",
		RevokeURL:    fmt.Sprintf("https://api.github.com/applications/%s/token", clientID),
	}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) UserData(ctx context.Context, token string) (*Identity, error) {
	headers := map[string]string{
		"Accept":        "application/json",
		"Authorization": "Bearer " + token,
	}

	var profile struct {
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	if err := netx.GetJSON(ctx, g.client, g.UserURL, headers, &profile); err != nil {
		return nil, err
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := netx.GetJSON(ctx, g.client, g.EmailsURL, headers, &emails); err != nil {
		return nil, err
	}

	identity := &Identity{Name: profile.Name}
	if identity.Name == "" {
		identity.Name = profile.Login
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			identity.Email = e.Email
			break
		}
	}
	return identity, nil
}

func (g *GitHub) RevokeToken(ctx context.Context, token string) error {
	body, err := json.Marshal(map[string]string{"access_token": token})
	if err != nil {
		return err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(g.clientID + ":" + g.clientSecret))
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
		"Authorization":        "Basic " + basic,
	}
	return netx.DoJSON(ctx, g.client, http.MethodDelete, g.RevokeURL, headers, strings.NewReader(string(body)), nil)
}
