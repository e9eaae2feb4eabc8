// Package oauth implements the federated identity validator: exchanging a
// third-party access token for a normalized identity, per provider, with
// best-effort revocation on completion.
package oauth

import (
	"context"

	"github.com/gamix-app/auth-service/internal/logging"
)

// Identity is the normalized result of a provider profile fetch. Email may
// be empty for providers that did not disclose one (github without a
// primary verified email); that is still a valid identity.
type Identity struct {
	Name  string
	Email string
}

// Provider fetches user data for, and revokes, third-party access tokens.
type Provider interface {
	Name() string
	UserData(ctx context.Context, token string) (*Identity, error)
	RevokeToken(ctx context.Context, token string) error
}

// Validation is the outcome handed to the user-linking collaborator. The
// identity is never persisted by this package.
type Validation struct {
	Valid bool
	Name  string
	Email string
}

// Gateway dispatches validation requests through a provider lookup table
// built at startup. Unknown provider keys fail without a network call, and
// provider failures are downgraded to an invalid result, never propagated.
type Gateway struct {
	providers map[string]Provider
	log       logging.Logger
}

// NewGateway builds a Gateway over the given providers.
func NewGateway(log logging.Logger, providers ...Provider) *Gateway {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Gateway{providers: m, log: log}
}

// Validate exchanges the presented access token for a normalized identity.
// Revocation runs after a successful fetch and cannot flip the result.
func (g *Gateway) Validate(ctx context.Context, provider string, token string) Validation {
	p, ok := g.providers[provider]
	if !ok {
		return Validation{}
	}

	identity, err := p.UserData(ctx, token)
	if err != nil {
		g.log.Warn(ctx, "social login validation failed", "provider", provider, "error", err)
		return Validation{}
	}

	if err := p.RevokeToken(ctx, token); err != nil {
		// Best-effort: a failed revocation does not affect validity.
		g.log.Warn(ctx, "token revocation failed", "provider", provider, "error", err)
	}

	return Validation{Valid: true, Name: identity.Name, Email: identity.Email}
}
