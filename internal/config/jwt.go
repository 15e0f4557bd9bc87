package config

import "fmt"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the token configuration. The secret is required.
func (a AuthConfig) JWT() (*JWTConfig, error) {
	c := &JWTConfig{Secret: a.JWTSecret, ExpirationHours: a.JWTExpirationHours}
	if c.ExpirationHours == 0 {
		c.ExpirationHours = 24
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("auth.jwt_secret (JWT_SECRET) is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("auth.jwt_expiration_hours must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
