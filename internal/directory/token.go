package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/golang-jwt/jwt/v5"
)

// TokenSource yields the bearer token sent to the directory. An empty token means the
// request goes out without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(t)), nil
}

// FileTokenStore keeps the token in a local file, the CLI counterpart of browser storage.
type FileTokenStore struct {
	Path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

func (s *FileTokenStore) Token(context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(strings.TrimSpace(token)+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// ContextToken forwards the token the BFF received on the incoming request, and only that
// token. A caller without one reaches the directory anonymously.
type ContextToken struct{}

func (ContextToken) Token(ctx context.Context) (string, error) {
	return internal.TokenFromContext(ctx), nil
}

// checkExpiry logs a warning for a JWT whose exp has passed. The token is never refreshed
// and is sent as is; opaque tokens are ignored.
func checkExpiry(token string, now time.Time, logger *slog.Logger) {
	if strings.Count(token, ".") != 2 {
		return
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		logger.Debug("bearer token is not a parseable JWT", "error", err)
		return
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if now.After(exp.Time) {
		logger.Warn("bearer token has expired, sending anyway",
			"expired_at", exp.Time.UTC().Format(time.RFC3339))
	}
}
