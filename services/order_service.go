package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/reconcile"
	"github.com/kendall-kelly/design-orders-panel/storage"
	"github.com/kendall-kelly/design-orders-panel/utils"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidPriority = errors.New("invalid order priority")
)

// FilterAll disables status filtering in Orders
const FilterAll = "all"

// SyncState reports what happened to the remote half of a write
type SyncState string

const (
	SyncSynced  SyncState = "synced"
	SyncFailed  SyncState = "failed"
	SyncSkipped SyncState = "skipped"
)

// WriteOutcome describes a completed write. The local half always succeeded;
// Remote tells whether the remote service saw it too.
type WriteOutcome struct {
	Order       *models.Order `json:"order,omitempty"`
	Remote      SyncState     `json:"remote"`
	RemoteError string        `json:"remoteError,omitempty"`
}

// Stats is the dashboard summary of the order collection
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	OnHold     int `json:"onHold"`
}

// Snapshot is the full dashboard view after a load
type Snapshot struct {
	Orders         []models.Order    `json:"orders"`
	Clients        []models.Client   `json:"clients"`
	ClientsDerived bool              `json:"clientsDerived"`
	Stats          Stats             `json:"stats"`
	Status         reconcile.Status  `json:"status"`
	Source         models.Provenance `json:"source"`
}

// OrderServiceOptions configures NewOrderService
type OrderServiceOptions struct {
	// API is nil when remote mode is disabled
	API          *APIClient
	Local        *storage.Local
	Tracker      *reconcile.Tracker
	Logger       *zap.Logger
	SeedDemoData bool
}

// OrderService owns the in-memory order and client collections of the panel.
// Loads reconcile the remote and local views; writes try the remote once and
// always land in the local store.
type OrderService struct {
	// loadMu serializes loads; mu guards the collections below
	loadMu sync.Mutex
	mu     sync.Mutex
	tombMu sync.Mutex

	api     *APIClient
	local   *storage.Local
	tracker *reconcile.Tracker
	logger  *zap.Logger
	seed    bool

	loaded         bool
	orders         []models.Order
	clients        []models.Client
	clientsDerived bool
}

// NewOrderService creates an order service
func NewOrderService(opts OrderServiceOptions) *OrderService {
	tracker := opts.Tracker
	if tracker == nil {
		tracker = reconcile.NewTracker()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		api:     opts.API,
		local:   opts.Local,
		tracker: tracker,
		logger:  logger.Named("orders"),
		seed:    opts.SeedDemoData,
		orders:  []models.Order{},
		clients: []models.Client{},
	}
}

// RemoteEnabled reports whether the service talks to the remote at all
func (s *OrderService) RemoteEnabled() bool {
	return s.api != nil
}

// Tracker exposes the provenance tracker
func (s *OrderService) Tracker() *reconcile.Tracker {
	return s.tracker
}

// Load runs a full load: fetch both sources, normalize, merge, synthesize
// clients when none exist and record provenance. Remote failures fall back to
// local data and are never returned; an unrecoverable failure leaves the
// service in the error state with empty collections. Reads are not blocked
// while the remote is being contacted.
func (s *OrderService) Load(ctx context.Context) *Snapshot {
	return s.load(ctx, false)
}

// remoteView is the outcome of the network half of a load
type remoteView struct {
	orders  []models.Record
	clients []models.Record
	err     error
}

func (s *OrderService) load(ctx context.Context, onlyIfUnloaded bool) *Snapshot {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if onlyIfUnloaded {
		s.mu.Lock()
		loaded := s.loaded
		s.mu.Unlock()
		if loaded {
			return nil
		}
	}

	s.tracker.Begin()
	var remote *remoteView
	if s.RemoteEnabled() {
		remote = &remoteView{}
		remote.orders, remote.clients, remote.err = s.fetchRemote(ctx)
		if remote.err == nil {
			remote.orders = s.applyTombstones(ctx, remote.orders)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(ctx, remote)
	return s.snapshotLocked()
}

// install reconciles the fetched remote view with the local store and
// replaces the in-memory collections. Callers hold s.mu.
func (s *OrderService) install(ctx context.Context, remote *remoteView) {
	s.loaded = true

	localOrders, errOrders := s.local.Records(ctx, storage.KeyOrders)
	localClients, errClients := s.local.Records(ctx, storage.KeyClients)
	localErr := errors.Join(errOrders, errClients)
	if localErr != nil {
		s.logger.Error("Failed to read local collections", zap.Error(localErr))
		localOrders, localClients = []models.Record{}, []models.Record{}
	}

	var remoteErr error
	if remote != nil {
		if remote.err == nil {
			// deletes made while the remote was being fetched
			remoteOrders := s.hideTombstoned(ctx, remote.orders)
			remoteCount := len(remoteOrders) + len(remote.clients)
			if remoteCount > 0 {
				localCount := len(localOrders) + len(localClients)
				s.setCollections(
					mergeOrders(remoteOrders, localOrders),
					mergeClients(remote.clients, localClients),
				)
				s.persistCollections(ctx)
				s.tracker.Resolve(remoteCount, localCount)
				return
			}
		} else {
			remoteErr = remote.err
			s.logger.Warn("Remote load failed, falling back to local data", zap.Error(remoteErr))
		}
	}

	// local fallback
	if localErr != nil || (len(localOrders) == 0 && len(localClients) == 0) {
		seeded, err := s.seedLocal(ctx)
		if err != nil {
			err = errors.Join(localErr, err)
		} else if !seeded {
			err = localErr
		}
		if err != nil {
			s.setCollections([]models.Order{}, []models.Client{})
			s.tracker.Fail(err)
			return
		}
		if seeded {
			localOrders, localClients = storage.SeedOrders(), storage.SeedClients()
		}
	}

	s.setCollections(models.NormalizeOrders(localOrders), models.NormalizeClients(localClients))
	localCount := len(localOrders) + len(localClients)
	if remoteErr != nil {
		s.tracker.RemoteFailed(remoteErr, localCount)
	} else if s.RemoteEnabled() {
		s.tracker.Resolve(0, localCount)
	} else {
		s.tracker.RemoteDisabled(localCount)
	}
}

// fetchRemote fetches orders and clients concurrently; either failure fails both
func (s *OrderService) fetchRemote(ctx context.Context) ([]models.Record, []models.Record, error) {
	var orders, clients []models.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.api.ListOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.api.ListClients(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return orders, clients, nil
}

// seedLocal writes the demo data set. It reports false when seeding is off.
func (s *OrderService) seedLocal(ctx context.Context) (bool, error) {
	if !s.seed {
		return false, nil
	}
	if err := s.local.SetRecords(ctx, storage.KeyOrders, storage.SeedOrders()); err != nil {
		return false, fmt.Errorf("failed to seed orders: %w", err)
	}
	if err := s.local.SetRecords(ctx, storage.KeyClients, storage.SeedClients()); err != nil {
		return false, fmt.Errorf("failed to seed clients: %w", err)
	}
	s.logger.Info("Seeded local store with demo data")
	return true, nil
}

// setCollections installs the loaded collections, deriving clients from
// orders when there are none
func (s *OrderService) setCollections(orders []models.Order, clients []models.Client) {
	s.orders = orders
	s.clientsDerived = false
	if clients == nil {
		clients = []models.Client{}
	}
	if len(clients) == 0 && len(orders) > 0 {
		clients = reconcile.SynthesizeClients(orders)
		s.clientsDerived = true
	}
	s.clients = clients
}

// persistCollections refreshes the local cache after a remote load.
// Derived clients are a view and are not written.
func (s *OrderService) persistCollections(ctx context.Context) {
	if err := s.local.SetRecords(ctx, storage.KeyOrders, s.orders); err != nil {
		s.logger.Warn("Failed to cache orders locally", zap.Error(err))
	}
	if s.clientsDerived {
		return
	}
	if err := s.local.SetRecords(ctx, storage.KeyClients, s.clients); err != nil {
		s.logger.Warn("Failed to cache clients locally", zap.Error(err))
	}
}

func mergeOrders(remote, local []models.Record) []models.Order {
	remoteSide := models.OrderRecords(models.NormalizeOrders(remote))
	localSide := models.OrderRecords(models.NormalizeOrders(local))
	return models.NormalizeOrders(reconcile.Merge(remoteSide, localSide, "id"))
}

func mergeClients(remote, local []models.Record) []models.Client {
	remoteSide := models.ClientRecords(models.NormalizeClients(remote))
	localSide := models.ClientRecords(models.NormalizeClients(local))
	return models.NormalizeClients(reconcile.Merge(remoteSide, localSide, "id"))
}

// ensureLoaded runs the first load lazily. Callers must not hold s.mu.
func (s *OrderService) ensureLoaded(ctx context.Context) {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		s.load(ctx, true)
	}
}

// Snapshot returns the current dashboard view, loading first if needed
func (s *OrderService) Snapshot(ctx context.Context) *Snapshot {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *OrderService) snapshotLocked() *Snapshot {
	status := s.tracker.Status()
	return &Snapshot{
		Orders:         append([]models.Order{}, s.orders...),
		Clients:        append([]models.Client{}, s.clients...),
		ClientsDerived: s.clientsDerived,
		Stats:          computeStats(s.orders),
		Status:         status,
		Source:         status.Source,
	}
}

// Orders returns the orders matching filter, which is a status or FilterAll
func (s *OrderService) Orders(ctx context.Context, filter string) ([]models.Order, error) {
	if filter != "" && filter != FilterAll && !models.OrderStatus(filter).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter)
	}

	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter == "" || filter == FilterAll || string(o.Status) == filter {
			out = append(out, o)
		}
	}
	return out, nil
}

// Clients returns the current clients, explicit or derived
func (s *OrderService) Clients(ctx context.Context) []models.Client {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Client{}, s.clients...)
}

// Stats counts the current orders by status
func (s *OrderService) Stats(ctx context.Context) Stats {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeStats(s.orders)
}

func computeStats(orders []models.Order) Stats {
	stats := Stats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusCancelled:
			stats.Cancelled++
		case models.StatusOnHold:
			stats.OnHold++
		}
	}
	return stats
}

// Create records a new order from intake input. The id, status and
// timestamps are assigned here; a remote-assigned id replaces the local one.
func (s *OrderService) Create(ctx context.Context, input models.Record) (*WriteOutcome, error) {
	raw := input.Clone()
	for _, field := range []string{"id", "status", "createdAt", "updatedAt"} {
		delete(raw, field)
	}
	order := models.NormalizeOrder(raw)

	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := &WriteOutcome{Remote: SyncSkipped}
	if s.RemoteEnabled() {
		created, err := s.api.CreateOrder(ctx, order.Request())
		if err != nil {
			s.remoteWriteFailed(outcome, "create", order.ID, err)
		} else {
			outcome.Remote = SyncSynced
			if id, ok := created.Key("id"); ok {
				order.ID = id
			}
		}
	}

	next := make([]models.Order, 0, len(s.orders)+1)
	next = append(append(next, s.orders...), order)
	if err := s.commitOrders(ctx, next); err != nil {
		return nil, err
	}
	outcome.Order = &order
	return outcome, nil
}

// UpdateStatus changes the status of one order
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*WriteOutcome, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.update(ctx, id, map[string]any{"status": string(status)}, func(o *models.Order) {
		o.Status = status
	})
}

// UpdatePriority changes the priority of one order
func (s *OrderService) UpdatePriority(ctx context.Context, id string, priority models.Priority) (*WriteOutcome, error) {
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	return s.update(ctx, id, map[string]any{"priority": string(priority)}, func(o *models.Order) {
		o.Priority = priority
	})
}

func (s *OrderService) update(ctx context.Context, id string, patch map[string]any, apply func(*models.Order)) (*WriteOutcome, error) {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	outcome := &WriteOutcome{Remote: SyncSkipped}
	if s.RemoteEnabled() {
		if _, err := s.api.UpdateOrder(ctx, id, patch); err != nil {
			s.remoteWriteFailed(outcome, "update", id, err)
		} else {
			outcome.Remote = SyncSynced
		}
	}

	next := append([]models.Order{}, s.orders...)
	updated := next[i]
	apply(&updated)
	updated.UpdatedAt = utils.NextTimestamp(updated.UpdatedAt)
	next[i] = updated

	if err := s.commitOrders(ctx, next); err != nil {
		return nil, err
	}
	outcome.Order = &updated
	return outcome, nil
}

// Delete removes one order. When the remote does not confirm the delete the
// id is tombstoned so later loads hide it and retry the remote delete.
func (s *OrderService) Delete(ctx context.Context, id string) (*WriteOutcome, error) {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	outcome := &WriteOutcome{Remote: SyncSkipped}
	if s.RemoteEnabled() {
		if err := s.api.DeleteOrder(ctx, id); err != nil && !isRemoteNotFound(err) {
			s.remoteWriteFailed(outcome, "delete", id, err)
		} else {
			outcome.Remote = SyncSynced
		}
	}

	removed := s.orders[i]
	next := make([]models.Order, 0, len(s.orders)-1)
	next = append(append(next, s.orders[:i]...), s.orders[i+1:]...)
	if err := s.commitOrders(ctx, next); err != nil {
		return nil, err
	}

	if outcome.Remote != SyncSynced {
		if err := s.addTombstone(ctx, id); err != nil {
			s.logger.Warn("Failed to record deleted order", zap.String("order_id", id), zap.Error(err))
		}
	}
	outcome.Order = &removed
	return outcome, nil
}

func (s *OrderService) indexOf(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *OrderService) remoteWriteFailed(outcome *WriteOutcome, op, id string, err error) {
	outcome.Remote = SyncFailed
	outcome.RemoteError = err.Error()
	s.logger.Warn("Remote write failed, applying locally",
		zap.String("op", op),
		zap.String("order_id", id),
		zap.Error(err),
	)
}

// commitOrders writes orders to the local store and, only once that
// succeeded, installs them in memory and refreshes derived clients.
func (s *OrderService) commitOrders(ctx context.Context, orders []models.Order) error {
	if err := s.local.SetRecords(ctx, storage.KeyOrders, orders); err != nil {
		return fmt.Errorf("failed to persist orders: %w", err)
	}
	if s.clientsDerived || len(s.clients) == 0 {
		s.setCollections(orders, nil)
	} else {
		s.orders = orders
	}
	return nil
}

func isRemoteNotFound(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.Code == CodeHTTP && remoteErr.Status == http.StatusNotFound
}
