package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/config"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql/dao"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AuthController struct {
	userDAO  *dao.UserDAO
	sessions *SessionController
	cfg      config.Config
}

func NewAuthController(userDAO *dao.UserDAO, sessions *SessionController, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO:  userDAO,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Login is simulated: any username signs in, first sight auto-creates the
// account. A fresh login also makes sure a chat context exists, matching
// the first-run behavior of the app.
func (c *AuthController) Login(ctx context.Context, username, email string) (string, error) {
	user, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		if email == "" {
			email = username + "@example.com"
		}
		user, err = c.userDAO.CreateUser(ctx, username, username, email)
		if err != nil {
			return "", err
		}
	}

	sessions, err := c.sessions.ListSessions(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		if _, err := c.sessions.CreateSession(ctx, user.ID, nil); err != nil {
			return "", err
		}
	} else {
		active, err := c.sessions.ActiveSession(ctx, user.ID)
		if err != nil {
			return "", err
		}
		if active == nil {
			if err := c.sessions.SetActive(ctx, user.ID, sessions[0].ID); err != nil {
				return "", err
			}
		}
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Logout clears the signed-in user; sessions stay intact. Tokens are
// stateless, so the server side is just an audit entry and the client
// discards its token.
func (c *AuthController) Logout(ctx context.Context, userID string) {
	logging.AppLogger.Info("user logged out", zap.String("user_id", userID))
}
