package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rpaulsen/lectern/internal/server"
	"github.com/rpaulsen/lectern/internal/services"
	"github.com/rpaulsen/lectern/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const defaultRedirectURI = "http://localhost:3000/callback"

// oauthConfig builds the OAuth2 config for the CMS authorization-code flow.
func oauthConfig(config *shared.Config) (*oauth2.Config, error) {
	if config.CMS.ClientID == "" || config.CMS.ClientSecret == "" {
		return nil, fmt.Errorf("%w: cms.client_id and cms.client_secret must be set", shared.ErrMissingCredentials)
	}

	redirectURI := config.CMS.RedirectURI
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	return &oauth2.Config{
		ClientID:     config.CMS.ClientID,
		ClientSecret: config.CMS.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  config.CMS.BaseURL + "/oauth/authorize",
			TokenURL: config.CMS.BaseURL + "/oauth/token",
		},
	}, nil
}

// AuthLogin runs the OAuth2 authorization-code flow against the CMS and saves
// the resulting token for subsequent invocations.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using current", "error", err)
		}
	}

	oauthCfg, err := oauthConfig(config)
	if err != nil {
		return err
	}

	token, err := r.doOAuth(oauthCfg)
	if err != nil {
		return err
	}

	if err := saveToken(token); err != nil {
		return err
	}

	if cms, ok := r.cms.(*services.ClassroomService); ok {
		cms.Authenticate(ctx, oauthCfg, token)
	}

	r.writePlain("✓ Authorization successful\n")
	r.writePlain("Token saved to: %s\n", filepath.Join(configDir(), "token.json"))
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(oauthCfg *oauth2.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthCfg.AuthCodeURL(state)
	oauthHandler := server.NewOAuthHandler(oauthCfg, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr, err := listenAddr(oauthCfg.RedirectURL)
	if err != nil {
		return nil, err
	}
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for CMS authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// listenAddr derives the loopback listen address from the redirect URI.
func listenAddr(redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: redirect URI has no host", shared.ErrInvalidConfig)
	}
	return u.Host, nil
}

// saveToken persists the OAuth token under the lectern config directory.
func saveToken(token *oauth2.Token) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "token.json"), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// AuthStatus checks the CMS health endpoint to verify connectivity and auth.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking CMS health")

	resp, err := r.api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	r.writePlain("✓ CMS reachable\n")
	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// AuthSession imports a browser session from a cURL command.
//
// Admins can copy a request from the devtools of a logged-in CMS session and
// reuse its headers for API access without a separate token.
func (r *Runner) AuthSession(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for CMS session headers")

	var session *shared.SessionHeaders
	var err error

	if curlFile != "" {
		session, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		session, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	if outputPath == "" {
		outputPath = filepath.Join(configDir(), "session.json")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	sessionJSON, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(outputPath, sessionJSON, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if cms, ok := r.cms.(*services.ClassroomService); ok {
		cms.UseSession(session)
	}

	r.logger.Info("session saved", "path", outputPath)

	r.writePlain("✓ Browser session imported successfully\n")
	r.writePlain("Session saved to: %s\n", outputPath)
	return nil
}
