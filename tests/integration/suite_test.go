package integration

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/kendall-kelly/design-orders-panel/config"
	"github.com/kendall-kelly/design-orders-panel/services"
	"github.com/kendall-kelly/design-orders-panel/storage"
	"github.com/kendall-kelly/design-orders-panel/tests/testutil"
)

// panelSuite runs the services against a fake remote and a sqlite file that
// outlives each simulated process restart
type panelSuite struct {
	suite.Suite
	remote *testutil.FakeRemote
	cfg    *config.Config
	store  storage.Store
	ctx    context.Context
}

// SetupSuite runs once before all tests
func (s *panelSuite) SetupSuite() {
	testutil.MustSetTestEnvironment(s.T())
	s.ctx = context.Background()
}

// SetupTest runs before each test
func (s *panelSuite) SetupTest() {
	s.remote = testutil.NewFakeRemote(s.T())
	s.cfg = &config.Config{
		GoEnv:        "test",
		APIBaseURL:   s.remote.URL,
		UseAPI:       true,
		APITimeoutMS: 2000,
		StoreDSN:     "sqlite://" + s.T().TempDir() + "/panel.db",
	}
	s.store = nil
}

// TearDownTest runs after each test
func (s *panelSuite) TearDownTest() {
	s.closeStore()
}

func (s *panelSuite) closeStore() {
	if s.store != nil {
		s.NoError(s.store.Close())
		s.store = nil
	}
}

// start simulates a process start: it reopens the store and builds fresh services
func (s *panelSuite) start() (*services.OrderService, *services.AuthService, *storage.Local) {
	s.closeStore()

	store, err := storage.Open(s.ctx, s.cfg)
	s.Require().NoError(err)
	s.store = store

	logger := zaptest.NewLogger(s.T())
	local := storage.NewLocal(store, logger)

	var api *services.APIClient
	if s.cfg.UseAPI {
		api = services.NewAPIClient(services.NewRemoteClient(s.cfg.APIBaseURL, time.Duration(s.cfg.APITimeoutMS)*time.Millisecond, nil, logger))
	}

	orders := services.NewOrderService(services.OrderServiceOptions{
		API:          api,
		Local:        local,
		Logger:       logger,
		SeedDemoData: s.cfg.SeedDemoData,
	})
	return orders, services.NewAuthService(api, local, logger), local
}
