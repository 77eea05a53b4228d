package identity

import (
	"context"
	"strings"
)

// Facebook reads the profile from the Graph API. The picture comes from a
// second call because /me does not inline it.
type Facebook struct {
	BaseURL string
}

func NewFacebook(baseURL string) *Facebook {
	return &Facebook{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (f *Facebook) Name() string { return "facebook" }

func (f *Facebook) FetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	client := bearerClient(ctx, accessToken)

	var me struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, client, f.BaseURL+"/me?fields=name,id,email", &me); err != nil {
		return Profile{}, err
	}

	var picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := getJSON(ctx, client, f.BaseURL+"/me/picture?redirect=0&height=200&width=200", &picture); err != nil {
		return Profile{}, err
	}

	return complete(Profile{Name: me.Name, Email: me.Email, Picture: picture.Data.URL})
}
