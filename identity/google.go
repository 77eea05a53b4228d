package identity

import (
	"context"
	"strings"
)

// Google reads the profile from the OAuth2 userinfo endpoint.
type Google struct {
	BaseURL string
}

func NewGoogle(baseURL string) *Google {
	return &Google{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (g *Google) Name() string { return "google" }

func (g *Google) FetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	var info struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	url := g.BaseURL + "/oauth2/v1/userinfo?alt=json"
	if err := getJSON(ctx, bearerClient(ctx, accessToken), url, &info); err != nil {
		return Profile{}, err
	}
	return complete(Profile{Name: info.Name, Email: info.Email, Picture: info.Picture})
}
