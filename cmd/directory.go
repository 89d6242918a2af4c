package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/directory"
)

var tokenOverride string

// tokenStore is where `hr-portal token` keeps the bearer token between CLI runs.
func tokenStore(cfg *internal.Config) *directory.FileTokenStore {
	path := cfg.Directory.TokenFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".hr-portal", "token")
	}
	return directory.NewFileTokenStore(path)
}

// cliTokenSource prefers the --token flag, then the configured token, then the token file.
func cliTokenSource(cfg *internal.Config) directory.TokenSource {
	if tokenOverride != "" {
		return directory.StaticToken(tokenOverride)
	}
	if cfg.Directory.Token != "" {
		return directory.StaticToken(cfg.Directory.Token)
	}
	return tokenStore(cfg)
}

func newDirectoryClient(cfg *internal.Config, tokens directory.TokenSource, logger *slog.Logger) *directory.Client {
	return directory.NewClient(directory.Config{
		BaseURL: cfg.Directory.BaseURL,
		Timeout: cfg.Directory.Timeout,
	}, tokens, logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tokenOverride, "token", "", "bearer token sent to the directory (overrides config and token file)")
}

// withDirectory runs fn against a client built from the CLI configuration.
func withDirectory(fn func(ctx context.Context, client *directory.Client, tokens directory.TokenSource) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	tokens := cliTokenSource(cfg)
	return fn(context.Background(), newDirectoryClient(cfg, tokens, logger), tokens)
}

// requireToken refuses mutating calls when no bearer token is configured.
func requireToken(ctx context.Context, tokens directory.TokenSource) error {
	token, err := tokens.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return internal.ErrMissingToken
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
