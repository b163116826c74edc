package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Client configures cmd/adminctl.
type Client struct {
	URL       string `env:"ADMINCTL_URL" envDefault:"http://localhost:8080"`
	Token     string `env:"ADMINCTL_TOKEN"`
	TokenFile string `env:"ADMINCTL_TOKEN_FILE" envDefault:".adminctl_token"`
}

func LoadClient() (*Client, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Config] .env tidak dapat dibaca: %v", err)
	}
	return parseClient(env.Options{})
}

func parseClient(opts env.Options) (*Client, error) {
	c := &Client{}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return nil, err
	}
	c.URL = strings.TrimRight(c.URL, "/")
	return c, nil
}

// ResolveToken prefers ADMINCTL_TOKEN and falls back to the token file written by
// "adminctl login". A missing file yields an empty token.
func (c *Client) ResolveToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	b, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (c *Client) SaveToken(token string) error {
	return os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600)
}
