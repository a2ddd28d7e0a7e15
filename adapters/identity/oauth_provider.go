package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/config"
	"github.com/khoahotran/soundfolio/internal/domain/user"
)

// oauthProvider signs users in with an OpenID-style provider and maps the
// userinfo response to an Identity.
type oauthProvider struct {
	conf        *oauth2.Config
	userInfoURL string
}

func NewOAuthProvider(cfg config.Config) service.IdentityProvider {
	return &oauthProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       cfg.OAuth.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuth.AuthURL,
				TokenURL: cfg.OAuth.TokenURL,
			},
		},
		userInfoURL: cfg.OAuth.UserInfoURL,
	}
}

func (p *oauthProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type userInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *oauthProvider) Exchange(ctx context.Context, code string) (user.Identity, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return user.Identity{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return user.Identity{}, err
	}
	resp, err := p.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return user.Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return user.Identity{}, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return user.Identity{}, fmt.Errorf("decode userinfo: %w", err)
	}
	name := info.Name
	if name == "" {
		name = info.Email
	}
	return user.Identity{UserID: info.Sub, DisplayName: name}, nil
}
