package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rpaulsen/lectern/internal/services"
	"github.com/rpaulsen/lectern/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	godotenv.Load()
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	token := config.CMS.APIToken
	if token == "" {
		token = savedToken()
	}

	classroom := services.NewClassroomService(services.ClassroomOpts{
		BaseURL:   config.CMS.BaseURL,
		APIToken:  token,
		RateLimit: config.Upload.RateLimit,
	})
	if session := savedSession(); session != nil {
		classroom.UseSession(session)
	}

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Classroom: classroom,
		Host:      services.NewCloudinaryService("", nil),
		API:       services.NewAPIService(config.CMS.BaseURL, nil),
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "lectern",
		Usage:    "Upload curriculum content to the classroom CMS",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// configDir is where the CLI keeps its saved credentials.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lectern"
	}
	return filepath.Join(home, ".lectern")
}

// savedToken loads the access token persisted by `lectern auth login`.
func savedToken() string {
	data, err := os.ReadFile(filepath.Join(configDir(), "token.json"))
	if err != nil {
		return ""
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &token); err != nil {
		return ""
	}
	return token.AccessToken
}

// savedSession loads browser-session headers persisted by `lectern auth session`.
func savedSession() *shared.SessionHeaders {
	data, err := os.ReadFile(filepath.Join(configDir(), "session.json"))
	if err != nil {
		return nil
	}

	var session shared.SessionHeaders
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}
	return &session
}
