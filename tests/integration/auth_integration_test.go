package integration

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/services"
	"github.com/kendall-kelly/design-orders-panel/tests/testutil"
)

// AuthIntegrationTestSuite covers the stored session across restarts
type AuthIntegrationTestSuite struct {
	panelSuite
}

func (suite *AuthIntegrationTestSuite) TestRemoteSessionSurvivesRestart() {
	_, auth, _ := suite.start()

	session, err := auth.Login(suite.ctx, testutil.FakeRemoteUsername, testutil.FakeRemotePassword)
	suite.Require().NoError(err)
	suite.Equal(models.AuthSourceAPI, session.Source)

	state, source := auth.State()
	suite.Equal(services.LoginSucceeded, state)
	suite.Equal(models.AuthSourceAPI, source)

	_, auth, _ = suite.start()
	restored, err := auth.Authenticate(suite.ctx, testutil.FakeRemoteToken)
	suite.Require().NoError(err)
	suite.Equal("Remote Designer", restored.User.Name)

	_, err = auth.Authenticate(suite.ctx, "stale-token")
	suite.ErrorIs(err, services.ErrNotLoggedIn)
}

func (suite *AuthIntegrationTestSuite) TestLocalFallbackAndLogout() {
	suite.remote.Close()
	_, auth, _ := suite.start()

	_, err := auth.Login(suite.ctx, "admin", "wrong")
	suite.ErrorIs(err, services.ErrInvalidCredentials)
	state, _ := auth.State()
	suite.Equal(services.LoginFailed, state)

	session, err := auth.Login(suite.ctx, "admin", "admin123")
	suite.Require().NoError(err)
	suite.Equal(models.AuthSourceLocal, session.Source)

	suite.Require().NoError(auth.Logout(suite.ctx))

	_, auth, _ = suite.start()
	current, err := auth.Session(suite.ctx)
	suite.Require().NoError(err)
	suite.False(current.LoggedIn)
}

func TestAuthIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationTestSuite))
}
