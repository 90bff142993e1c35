package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultCallbackAddr = "localhost:8085"
	authTimeout         = 5 * time.Minute
)

// OAuth2Config describes an installed-app OAuth2 client.
type OAuth2Config struct {
	Logger       *slog.Logger
	ClientID     string
	ClientSecret string
	// TokenFile, when set, receives the token after a successful flow.
	TokenFile string
	// CallbackAddr is the local listen address for the redirect.
	CallbackAddr string
}

func (c OAuth2Config) callbackAddr() string {
	if c.CallbackAddr == "" {
		return defaultCallbackAddr
	}
	return c.CallbackAddr
}

func (c OAuth2Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c OAuth2Config) oauth2(redirect string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirect,
		Scopes:       Scopes,
	}
}

var callbackPage = template.Must(template.New("callback").Parse(`<html><body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
<script>window.setTimeout(function(){window.close();}, 3000);</script>
</body></html>`))

// AuthenticateOAuth2Interactive runs the browser consent flow. It listens on
// the callback address until a code arrives, ctx ends or authTimeout passes.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	logger := config.logger()
	oauthConfig := config.oauth2("http://" + config.callbackAddr() + "/callback")
	state := uuid.NewString()

	codes := make(chan string, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}

		code := q.Get("code")
		if code == "" {
			select {
			case errs <- errors.New("no authorization code received"):
			default:
			}
			_ = callbackPage.Execute(w, map[string]string{
				"Title":   "Authentication failed",
				"Message": "No authorization code received. Run pulse auth sheets again.",
			})
			return
		}

		select {
		case codes <- code:
		default:
		}
		_ = callbackPage.Execute(w, map[string]string{
			"Title":   "Pulse is connected",
			"Message": "You can close this window and return to the terminal.",
		})
	})

	server := &http.Server{
		Addr:              config.callbackAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("failed to start callback server: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("callback server shutdown failed", "error", err)
		}
	}()

	logger.Info("open this URL to grant pulse access to your spreadsheets",
		"url", oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("no authorization received within %s", authTimeout)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, token); err != nil {
			logger.Warn("failed to save token", "file", config.TokenFile, "error", err)
		} else {
			logger.Debug("saved token", "file", config.TokenFile)
		}
	}
	return token, nil
}

// LoadToken reads a token written by a previous flow.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token %s: %w", tokenFile, err)
	}
	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// RefreshTokenIfNeeded returns token unchanged while it is valid and a
// refreshed one otherwise.
func RefreshTokenIfNeeded(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}

	fresh, err := config.oauth2("").TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, fresh); err != nil {
			config.logger().Warn("failed to save refreshed token", "error", err)
		}
	}
	return fresh, nil
}

// GetOrCreateToken reuses the token in config.TokenFile when one exists and
// falls back to the interactive flow.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		token, err := LoadToken(config.TokenFile)
		if err == nil && token.RefreshToken != "" {
			config.logger().Debug("reusing saved token", "file", config.TokenFile)
			return RefreshTokenIfNeeded(ctx, config, token)
		}
	}
	return AuthenticateOAuth2Interactive(ctx, config)
}
