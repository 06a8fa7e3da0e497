package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophnotes/internal/client/storage"
	"github.com/iudanet/gophnotes/internal/validation"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, interactive, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	// Подтверждение только при ручном вводе
	if interactive {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	if err := validation.ValidateCredentials(username, password); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registering user...")

	result, err := c.apiClient.Register(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", result.ID)
	c.io.Printf("Username: %s\n", result.Username)
	c.io.Println()
	c.io.Println("Please run 'gophnotes login' to start using the service.")

	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, _, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	session, err := c.apiClient.Login(ctx, username, password)
	if err != nil {
		return err
	}

	data := &storage.SessionData{
		Username:  username,
		ServerURL: c.serverURL,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
	if err := c.sessions.SaveSession(ctx, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", username)
	c.io.Printf("Session expires: %s\n", session.ExpiresAt.Local().Format(time.RFC3339))

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	// Сервер только очищает cookie; локальную сессию удаляем в любом случае
	if !session.Expired(c.now()) {
		if err := c.apiClient.Logout(ctx, session.Token); err != nil {
			c.io.Printf("Warning: server logout failed: %v\n", err)
		}
	}

	if err := c.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'gophnotes login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	now := c.now()
	if session.Expired(now) {
		c.io.Println("Status: Session expired")
		c.io.Printf("Username: %s\n", session.Username)
		c.io.Println()
		c.io.Println("⚠️  Token has expired. Please login again.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", session.Username)
	if session.ServerURL != "" {
		c.io.Printf("Server: %s\n", session.ServerURL)
	}
	c.io.Printf("Token expires: %s\n", session.ExpiresAt.Local().Format(time.RFC3339))
	c.io.Printf("Time remaining: %s\n", session.ExpiresAt.Sub(now).Round(time.Second))

	return nil
}
