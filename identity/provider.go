// Package identity turns an access token issued by a third-party login
// provider into the profile the catalog registers users with.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

var (
	ErrUnknownProvider    = errors.New("unknown identity provider")
	ErrProfileUnavailable = errors.New("identity provider rejected the token")
	ErrProfileIncomplete  = errors.New("identity provider returned no email")
)

// Profile is the verified identity handed to the catalog after login.
type Profile struct {
	Name    string
	Email   string
	Picture string
}

// Provider fetches the profile behind an access token.
type Provider interface {
	Name() string
	FetchProfile(ctx context.Context, accessToken string) (Profile, error)
}

// Registry maps provider names to providers.
type Registry map[string]Provider

func NewRegistry(providers ...Provider) Registry {
	r := make(Registry, len(providers))
	for _, p := range providers {
		r[p.Name()] = p
	}
	return r
}

func (r Registry) Lookup(name string) (Provider, error) {
	p, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// bearerClient returns a client that sends accessToken on every request.
// If ctx carries an *http.Client under oauth2.HTTPClient it is used as the
// base transport.
func bearerClient(ctx context.Context, accessToken string) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", ErrProfileUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	return nil
}

func complete(p Profile) (Profile, error) {
	if p.Email == "" {
		return Profile{}, ErrProfileIncomplete
	}
	if p.Name == "" {
		p.Name = p.Email
	}
	return p, nil
}
