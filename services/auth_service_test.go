package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/storage"
	"github.com/kendall-kelly/design-orders-panel/tests/testutil"
)

func newAuthService(t *testing.T, remote *testutil.FakeRemote) (*AuthService, *storage.Local) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	local := storage.NewLocal(storage.NewMemoryStore(), logger)
	var api *APIClient
	if remote != nil {
		api = NewAPIClient(NewRemoteClient(remote.URL, time.Second, nil, logger))
	}
	return NewAuthService(api, local, logger), local
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		remoteDown bool
		noRemote   bool
		username   string
		password   string
		wantErr    error
		wantSource models.AuthSource
	}{
		{
			name:       "remote accepts",
			username:   testutil.FakeRemoteUsername,
			password:   testutil.FakeRemotePassword,
			wantSource: models.AuthSourceAPI,
		},
		{
			name:       "remote refuses, local credentials match",
			username:   LocalAdminUsername,
			password:   LocalAdminPassword,
			wantSource: models.AuthSourceLocal,
		},
		{
			name:       "remote down, local credentials match",
			remoteDown: true,
			username:   LocalAdminUsername,
			password:   LocalAdminPassword,
			wantSource: models.AuthSourceLocal,
		},
		{
			name:       "remote disabled, local credentials match",
			noRemote:   true,
			username:   LocalAdminUsername,
			password:   LocalAdminPassword,
			wantSource: models.AuthSourceLocal,
		},
		{
			name:     "remote disabled, remote credentials are not accepted locally",
			noRemote: true,
			username: testutil.FakeRemoteUsername,
			password: testutil.FakeRemotePassword,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "wrong password everywhere",
			username: LocalAdminUsername,
			password: "admin1234",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "local check is case sensitive",
			noRemote: true,
			username: "Admin",
			password: LocalAdminPassword,
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := testutil.NewFakeRemote(t)
			if tt.remoteDown {
				remote.FailWith(http.StatusBadGateway)
			}
			if tt.noRemote {
				remote = nil
			}
			auth, _ := newAuthService(t, remote)

			session, err := auth.Login(context.Background(), tt.username, tt.password)
			state, source := auth.State()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "invalid username or password", err.Error())
				assert.Equal(t, LoginFailed, state)

				stored, err := auth.Session(context.Background())
				require.NoError(t, err)
				assert.False(t, stored.LoggedIn)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, LoginSucceeded, state)
			assert.Equal(t, tt.wantSource, source)
			assert.Equal(t, tt.wantSource, session.Source)
			assert.NotEmpty(t, session.Token)

			stored, err := auth.Session(context.Background())
			require.NoError(t, err)
			assert.True(t, stored.LoggedIn)
			assert.Equal(t, session.Token, stored.Token)
			assert.Equal(t, tt.wantSource, stored.Source)
			require.NotNil(t, stored.User)
			assert.Equal(t, tt.username, stored.User.Username)
		})
	}
}

func TestLoginSessionDetails(t *testing.T) {
	t.Run("remote identity and token are kept", func(t *testing.T) {
		auth, _ := newAuthService(t, testutil.NewFakeRemote(t))
		session, err := auth.Login(context.Background(), testutil.FakeRemoteUsername, testutil.FakeRemotePassword)
		require.NoError(t, err)
		assert.Equal(t, testutil.FakeRemoteToken, session.Token)
		assert.Equal(t, "Remote Designer", session.User.Name)
	})

	t.Run("local session gets a minted token", func(t *testing.T) {
		auth, local := newAuthService(t, nil)
		session, err := auth.Login(context.Background(), LocalAdminUsername, LocalAdminPassword)
		require.NoError(t, err)
		assert.Regexp(t, `^local-\d+-[0-9a-f]{32}$`, session.Token)

		flag, err := local.GetString(context.Background(), storage.KeyLoggedIn)
		require.NoError(t, err)
		assert.Equal(t, "true", flag)
	})
}

func TestLogoutAndAuthenticate(t *testing.T) {
	auth, local := newAuthService(t, nil)
	ctx := context.Background()

	_, err := auth.Authenticate(ctx, "anything")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	session, err := auth.Login(ctx, LocalAdminUsername, LocalAdminPassword)
	require.NoError(t, err)

	got, err := auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, LocalAdminUsername, got.User.Username)

	_, err = auth.Authenticate(ctx, session.Token+"x")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, auth.Logout(ctx))
	state, _ := auth.State()
	assert.Equal(t, LoginIdle, state)

	_, err = auth.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	for _, key := range []string{storage.KeyLoggedIn, storage.KeyCurrentUser, storage.KeySessionToken} {
		_, err := local.Store().Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrNotFound, key)
	}
}
