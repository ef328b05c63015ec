package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/storage"
	"github.com/kendall-kelly/design-orders-panel/utils"
)

// Fixed local credentials accepted when the remote cannot authenticate.
// This is a demonstration fallback, not a credential store.
const (
	LocalAdminUsername = "admin"
	LocalAdminPassword = "admin123"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// LoginState is the state of the most recent login attempt
type LoginState string

const (
	LoginIdle           LoginState = "idle"
	LoginAuthenticating LoginState = "authenticating"
	LoginSucceeded      LoginState = "succeeded"
	LoginFailed         LoginState = "failed"
)

// AuthService logs the administrator in against the remote, falling back to
// the fixed local credentials, and keeps the session in the local store.
type AuthService struct {
	mu     sync.Mutex
	api    *APIClient
	local  *storage.Local
	logger *zap.Logger

	state  LoginState
	source models.AuthSource
}

// NewAuthService creates an auth service. A nil api disables remote login.
func NewAuthService(api *APIClient, local *storage.Local, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		api:    api,
		local:  local,
		logger: logger.Named("auth"),
		state:  LoginIdle,
	}
}

// State returns the state of the last attempt and, on success, its source
func (a *AuthService) State() (LoginState, models.AuthSource) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.source
}

// Login runs one login attempt
func (a *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state, a.source = LoginAuthenticating, ""

	if a.api != nil {
		result, err := a.api.Login(ctx, username, password)
		if err == nil {
			return a.succeed(ctx, a.remoteSession(username, result))
		}
		a.logger.Warn("Remote login failed, trying local credentials", zap.Error(err))
	}

	if username == LocalAdminUsername && password == LocalAdminPassword {
		return a.succeed(ctx, &models.Session{
			LoggedIn: true,
			User:     localAdmin(),
			Token:    utils.NewSessionToken(),
			Source:   models.AuthSourceLocal,
		})
	}

	a.state = LoginFailed
	return nil, ErrInvalidCredentials
}

func (a *AuthService) remoteSession(username string, result *LoginResult) *models.Session {
	user := result.User
	if user == nil {
		user = &models.User{ID: username, Username: username, Name: username, Role: "admin"}
	}
	if user.Username == "" {
		user.Username = username
	}
	token := result.Token
	if token == "" {
		token = utils.NewSessionToken()
	}
	return &models.Session{LoggedIn: true, User: user, Token: token, Source: models.AuthSourceAPI}
}

func localAdmin() *models.User {
	return &models.User{
		ID:       "local-admin",
		Username: LocalAdminUsername,
		Name:     "Administrator",
		Role:     "admin",
	}
}

func (a *AuthService) succeed(ctx context.Context, session *models.Session) (*models.Session, error) {
	if err := a.persist(ctx, session); err != nil {
		a.state = LoginFailed
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	a.state, a.source = LoginSucceeded, session.Source
	a.logger.Info("Administrator logged in",
		zap.String("username", session.User.Username),
		zap.String("source", string(session.Source)),
	)
	return session, nil
}

func (a *AuthService) persist(ctx context.Context, session *models.Session) error {
	if err := a.local.SetJSON(ctx, storage.KeyCurrentUser, session.User); err != nil {
		return err
	}
	if err := a.local.SetString(ctx, storage.KeySessionToken, session.Token); err != nil {
		return err
	}
	if err := a.local.SetString(ctx, storage.KeyAuthSource, string(session.Source)); err != nil {
		return err
	}
	return a.local.SetFlag(ctx, storage.KeyLoggedIn, true)
}

// Logout clears the stored session
func (a *AuthService) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.local.Remove(ctx, storage.KeyLoggedIn, storage.KeyCurrentUser, storage.KeySessionToken, storage.KeyAuthSource); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	a.state, a.source = LoginIdle, ""
	return nil
}

// Session reads the stored session. A logged-out panel yields LoggedIn=false.
func (a *AuthService) Session(ctx context.Context) (*models.Session, error) {
	loggedIn, err := a.local.Flag(ctx, storage.KeyLoggedIn)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		return &models.Session{LoggedIn: false}, nil
	}

	session := &models.Session{LoggedIn: true}
	var user models.User
	found, err := a.local.GetJSON(ctx, storage.KeyCurrentUser, &user)
	if err != nil {
		return nil, err
	}
	if found {
		session.User = &user
	}
	if session.Token, err = a.local.GetString(ctx, storage.KeySessionToken); err != nil {
		return nil, err
	}
	source, err := a.local.GetString(ctx, storage.KeyAuthSource)
	if err != nil {
		return nil, err
	}
	session.Source = models.AuthSource(source)
	return session, nil
}

// Authenticate returns the stored session when token matches it
func (a *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	session, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}
	if !session.LoggedIn || session.Token == "" || token == "" {
		return nil, ErrNotLoggedIn
	}
	if subtle.ConstantTimeCompare([]byte(session.Token), []byte(token)) != 1 {
		return nil, ErrNotLoggedIn
	}
	return session, nil
}
