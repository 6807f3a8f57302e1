package authenticator

import (
	"context"
	"errors"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/prodoffice/crew-timesheet/config"
)

// Authenticator wraps the OpenID Connect provider and the OAuth2 flow used by
// the login endpoints.
type Authenticator struct {
	provider *oidc.Provider
	config   oauth2.Config
}

// New discovers the OpenID Connect provider from the configured issuer URL
func New(cfg *config.Config) (*Authenticator, error) {
	if cfg.OIDCIssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	if cfg.OIDCClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.OIDCClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.OIDCCallbackURL == "" {
		return nil, errors.New("callback URL is required")
	}

	provider, err := oidc.NewProvider(context.Background(), cfg.OIDCIssuerURL)
	if err != nil {
		return nil, err
	}

	conf := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCCallbackURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &Authenticator{
		provider: provider,
		config:   conf,
	}, nil
}

// AuthCodeURL returns the authorization URL carrying the CSRF state
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange converts an authorization code into an OAuth2 token
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.config.Exchange(ctx, code)
}

// VerifyIDToken validates the ID token carried inside the OAuth2 token
func (a *Authenticator) VerifyIDToken(ctx context.Context, token *oauth2.Token) (*oidc.IDToken, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	oidcConfig := &oidc.Config{
		ClientID: a.config.ClientID,
	}

	return a.provider.Verifier(oidcConfig).Verify(ctx, rawIDToken)
}
