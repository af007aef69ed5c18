package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/platehub/backend/internal/domain/catalog"
	"github.com/platehub/backend/internal/domain/ordering"
	"github.com/platehub/backend/internal/domain/platform"
	"github.com/platehub/backend/internal/domain/shared"
)

const recentOrdersLimit = 10

// HubService is the integration hub. It owns the platform registry, routes
// every platform-facing operation through the active/inactive gate and
// delegates the platform-specific work to the registered adapters.
type HubService struct {
	registry *platform.Registry

	mu       sync.RWMutex
	adapters map[platform.Code]platform.Adapter

	orders   ordering.Repository
	products catalog.Repository
	dedup    shared.IdempotencyStore
	dedupTTL time.Duration
	branchID int64
	logger   *zap.Logger
}

// HubServiceConfig contains configuration for HubService
type HubServiceConfig struct {
	OrderRepo   ordering.Repository
	ProductRepo catalog.Repository
	// Dedup is the webhook delivery dedup store; nil disables the fast path
	// and leaves the repository's uniqueness constraint as the only guard.
	Dedup       shared.IdempotencyStore
	DedupTTL    time.Duration
	// BranchID identifies the local branch whose catalog is pushed on sync
	BranchID int64
	Logger   *zap.Logger
}

// NewHubService creates a new HubService with an empty registry
func NewHubService(cfg HubServiceConfig) *HubService {
	ttl := cfg.DedupTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HubService{
		registry: platform.NewRegistry(),
		adapters: make(map[platform.Code]platform.Adapter),
		orders:   cfg.OrderRepo,
		products: cfg.ProductRepo,
		dedup:    cfg.Dedup,
		dedupTTL: ttl,
		branchID: cfg.BranchID,
		logger:   logger,
	}
}

// ---------------------------------------------------------------------------
// Registry Operations
// ---------------------------------------------------------------------------

// RegisterPlatform registers a platform adapter together with its config.
// Re-registering a platform replaces its previous state.
func (s *HubService) RegisterPlatform(adapter platform.Adapter, config platform.Config) error {
	if adapter == nil {
		return fmt.Errorf("%w: adapter is required", platform.ErrInvalidConfig)
	}
	if adapter.Code() != config.Name {
		return fmt.Errorf("%w: adapter code %q does not match config name %q",
			platform.ErrInvalidConfig, adapter.Code(), config.Name)
	}
	if err := s.registry.Register(config); err != nil {
		return err
	}
	s.mu.Lock()
	s.adapters[config.Name] = adapter
	s.mu.Unlock()

	s.logger.Info("Platform registered",
		zap.String("platform", config.Name.String()),
		zap.Bool("enabled", config.Enabled))
	return nil
}

// TogglePlatform activates or deactivates a registered platform
func (s *HubService) TogglePlatform(name string, active bool) error {
	code, err := parseCode(name)
	if err != nil {
		return err
	}
	if !s.registry.Toggle(code, active) {
		return platform.ErrPlatformNotRegistered
	}

	s.logger.Info("Platform toggled",
		zap.String("platform", code.String()),
		zap.Bool("active", active))
	return nil
}

// IsActive reports whether the named platform is registered and active
func (s *HubService) IsActive(name string) bool {
	code, err := parseCode(name)
	if err != nil {
		return false
	}
	return s.registry.IsActive(code)
}

// GetPlatformStatus returns the current state of one platform
func (s *HubService) GetPlatformStatus(name string) (*PlatformStatus, error) {
	code, err := parseCode(name)
	if err != nil {
		return nil, err
	}
	state, ok := s.registry.Get(code)
	if !ok {
		return nil, platform.ErrPlatformNotRegistered
	}
	status := newPlatformStatus(state)
	return &status, nil
}

// ListPlatforms returns the state of every registered platform
func (s *HubService) ListPlatforms() []PlatformStatus {
	states := s.registry.List()
	out := make([]PlatformStatus, 0, len(states))
	for _, state := range states {
		out = append(out, newPlatformStatus(state))
	}
	return out
}

// resolve maps a platform name to its adapter, enforcing the gate every
// platform-facing operation goes through. Unknown names fail before
// unregistered ones, unregistered before inactive.
func (s *HubService) resolve(name string) (platform.Adapter, error) {
	code, err := parseCode(name)
	if err != nil {
		return nil, err
	}
	adapter, ok := s.adapter(code)
	if !ok {
		return nil, platform.ErrPlatformNotRegistered
	}
	if !s.registry.IsActive(code) {
		return nil, platform.ErrPlatformInactive
	}
	return adapter, nil
}

// resolveAny is resolve without the active gate, for operations that must
// work on deactivated platforms (webhook signature checks still need the
// adapter to name the right header).
func (s *HubService) resolveAny(name string) (platform.Adapter, error) {
	code, err := parseCode(name)
	if err != nil {
		return nil, err
	}
	adapter, ok := s.adapter(code)
	if !ok {
		return nil, platform.ErrPlatformNotRegistered
	}
	return adapter, nil
}

// adapter reads the adapter map under the lock that RegisterPlatform writes it
// under; registration stays callable while requests are in flight.
func (s *HubService) adapter(code platform.Code) (platform.Adapter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adapter, ok := s.adapters[code]
	return adapter, ok
}

func parseCode(name string) (platform.Code, error) {
	code := platform.Code(strings.ToLower(strings.TrimSpace(name)))
	if !code.IsValid() {
		return "", fmt.Errorf("%w: %q", platform.ErrPlatformUnsupported, name)
	}
	return code, nil
}

// ---------------------------------------------------------------------------
// Menu Sync
// ---------------------------------------------------------------------------

// SyncMenuToPlatform pushes a branch catalog to one platform. A branch id of
// zero or less falls back to the configured default branch. The last sync time
// is recorded only when the push succeeds.
func (s *HubService) SyncMenuToPlatform(ctx context.Context, name string, branchID int64) (*platform.MenuSyncResult, error) {
	adapter, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	if branchID <= 0 {
		branchID = s.branchID
	}
	products, err := s.products.GetBranchProducts(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load branch products: %w", err)
	}

	result, err := adapter.SyncMenu(ctx, products)
	if err != nil {
		s.logger.Error("Menu sync failed",
			zap.String("platform", adapter.Code().String()),
			zap.Int("products", len(products)),
			zap.Error(err))
		return nil, err
	}

	s.registry.MarkSynced(adapter.Code(), result.SyncedAt)

	s.logger.Info("Menu synced",
		zap.String("platform", adapter.Code().String()),
		zap.Int("total", result.TotalCount),
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailedCount))
	return result, nil
}

// SyncMenuToAll pushes a branch catalog to every active platform. Each
// platform syncs independently; one failure does not stop the others.
func (s *HubService) SyncMenuToAll(ctx context.Context, branchID int64) map[platform.Code]*MenuSyncOutcome {
	outcomes := make(map[platform.Code]*MenuSyncOutcome)
	for _, code := range s.registry.Codes() {
		if !s.registry.IsActive(code) {
			continue
		}
		result, err := s.SyncMenuToPlatform(ctx, code.String(), branchID)
		outcome := &MenuSyncOutcome{Result: result}
		if err != nil {
			outcome.Error = err.Error()
		}
		outcomes[code] = outcome
	}
	return outcomes
}

// GetPlatformProducts fetches the product listing currently live on a platform
func (s *HubService) GetPlatformProducts(ctx context.Context, name string) (*PlatformProducts, error) {
	adapter, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	products, err := adapter.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformProducts{
		Platform:  adapter.Code(),
		Products:  products,
		Total:     len(products),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// ---------------------------------------------------------------------------
// Order Intake
// ---------------------------------------------------------------------------

// HandlePlatformOrder normalizes and persists a platform order payload. The
// bool result reports a duplicate delivery; duplicates return the originally
// stored order so webhook retries get a stable acknowledgement.
func (s *HubService) HandlePlatformOrder(ctx context.Context, name string, raw []byte) (*ordering.Order, bool, error) {
	adapter, err := s.resolve(name)
	if err != nil {
		return nil, false, err
	}

	order, err := adapter.ConvertOrder(raw)
	if err != nil {
		return nil, false, err
	}

	// Dedup fast path. The repository's uniqueness constraint stays
	// authoritative, so a store error here only costs us the shortcut.
	dedupKey := order.Platform + ":" + order.PlatformOrderID
	if s.dedup != nil {
		fresh, err := s.dedup.MarkProcessed(ctx, dedupKey, s.dedupTTL)
		if err != nil {
			s.logger.Warn("Dedup store unavailable, relying on repository uniqueness",
				zap.String("key", dedupKey),
				zap.Error(err))
		} else if !fresh {
			stored, err := s.orders.FindByPlatformOrderID(ctx, order.Platform, order.PlatformOrderID)
			if err == nil {
				return stored, true, nil
			}
			// Marked but not stored: the first delivery died between the
			// mark and the save. Fall through and persist.
		}
	}

	saved, err := s.orders.Save(ctx, order)
	if err != nil {
		if errors.Is(err, ordering.ErrDuplicateOrder) {
			s.logger.Info("Duplicate order delivery",
				zap.String("platform", order.Platform),
				zap.String("platform_order_id", order.PlatformOrderID))
			return saved, true, nil
		}
		return nil, false, fmt.Errorf("failed to store order: %w", err)
	}

	s.logger.Info("Order received",
		zap.String("platform", saved.Platform),
		zap.String("platform_order_id", saved.PlatformOrderID),
		zap.String("order_id", saved.ID.String()),
		zap.String("total", saved.TotalAmount.String()))

	// Confirm back to the platform. The order is already persisted, so a
	// confirmation failure is reported but does not fail the intake.
	if err := adapter.ConfirmOrder(ctx, saved.PlatformOrderID); err != nil {
		s.logger.Warn("Order confirmation failed",
			zap.String("platform", saved.Platform),
			zap.String("platform_order_id", saved.PlatformOrderID),
			zap.Error(err))
	} else if err := s.orders.UpdateStatus(ctx, saved.ID, ordering.StatusConfirmed); err == nil {
		saved.Status = ordering.StatusConfirmed
	}

	return saved, false, nil
}

// ---------------------------------------------------------------------------
// Status Propagation
// ---------------------------------------------------------------------------

// AcceptOrder accepts an order on the source platform and records the
// confirmed status locally
func (s *HubService) AcceptOrder(ctx context.Context, name, platformOrderID string) error {
	adapter, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := adapter.AcceptOrder(ctx, platformOrderID); err != nil {
		return err
	}
	s.recordLocalStatus(ctx, adapter.Code(), platformOrderID, ordering.StatusConfirmed)

	s.logger.Info("Order accepted",
		zap.String("platform", adapter.Code().String()),
		zap.String("platform_order_id", platformOrderID))
	return nil
}

// RejectOrder rejects an order on the source platform. An empty reason lets
// the adapter substitute the platform's default rejection reason.
func (s *HubService) RejectOrder(ctx context.Context, name, platformOrderID, reason string) error {
	adapter, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := adapter.RejectOrder(ctx, platformOrderID, reason); err != nil {
		return err
	}
	s.recordLocalStatus(ctx, adapter.Code(), platformOrderID, ordering.StatusCancelled)

	s.logger.Info("Order rejected",
		zap.String("platform", adapter.Code().String()),
		zap.String("platform_order_id", platformOrderID))
	return nil
}

// UpdateOrderStatus propagates an internal status change to the source
// platform and records it locally
func (s *HubService) UpdateOrderStatus(ctx context.Context, name, platformOrderID string, status ordering.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown order status %q", shared.ErrInvalidInput, status)
	}
	adapter, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := adapter.UpdateOrderStatus(ctx, platformOrderID, status.String()); err != nil {
		return err
	}
	s.recordLocalStatus(ctx, adapter.Code(), platformOrderID, status)

	s.logger.Info("Order status propagated",
		zap.String("platform", adapter.Code().String()),
		zap.String("platform_order_id", platformOrderID),
		zap.String("status", status.String()))
	return nil
}

// recordLocalStatus mirrors an upstream status change into the local store.
// Orders placed before the hub started tracking this platform may be absent;
// that is not an error worth failing the propagation over.
func (s *HubService) recordLocalStatus(ctx context.Context, code platform.Code, platformOrderID string, status ordering.Status) {
	order, err := s.orders.FindByPlatformOrderID(ctx, code.String(), platformOrderID)
	if err != nil {
		if !errors.Is(err, ordering.ErrOrderNotFound) {
			s.logger.Warn("Failed to look up order for local status update",
				zap.String("platform", code.String()),
				zap.String("platform_order_id", platformOrderID),
				zap.Error(err))
		}
		return
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		s.logger.Warn("Failed to record local order status",
			zap.String("order_id", order.ID.String()),
			zap.String("status", status.String()),
			zap.Error(err))
	}
}

// ---------------------------------------------------------------------------
// Order Queries
// ---------------------------------------------------------------------------

// ListOrders returns a page of stored orders for one platform. sortBy and
// sortDir pass through to the repository, which whitelists them.
func (s *HubService) ListOrders(ctx context.Context, name string, page, pageSize int, sortBy, sortDir string) (*OrderPage, error) {
	code, err := parseCode(name)
	if err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	orders, total, err := s.orders.ListByPlatform(ctx, code.String(), (page-1)*pageSize, pageSize, sortBy, sortDir)
	if err != nil {
		return nil, err
	}

	return &OrderPage{
		Orders:   orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// RecentOrders returns the latest orders across all registered platforms
func (s *HubService) RecentOrders(ctx context.Context) ([]ordering.Order, error) {
	var recent []ordering.Order
	for _, code := range s.registry.Codes() {
		orders, _, err := s.orders.ListByPlatform(ctx, code.String(), 0, recentOrdersLimit, "", "")
		if err != nil {
			return nil, err
		}
		recent = append(recent, orders...)
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}
	return recent, nil
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

// CheckAllPlatformsHealth probes every registered platform concurrently.
// Active platforms get a live API probe; inactive ones are reported as
// inactive without a network call. Every registered platform appears in the
// result, and one slow or failing platform never hides the others.
func (s *HubService) CheckAllPlatformsHealth(ctx context.Context) map[platform.Code]platform.HealthStatus {
	codes := s.registry.Codes()
	results := make(map[platform.Code]platform.HealthStatus, len(codes))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, code := range codes {
		code := code
		g.Go(func() error {
			status := s.probePlatform(ctx, code)
			s.registry.RecordHealth(code, status)
			mu.Lock()
			results[code] = status
			mu.Unlock()
			return nil
		})
	}
	// Probes report failures through their status, never through the group.
	_ = g.Wait()

	return results
}

func (s *HubService) probePlatform(ctx context.Context, code platform.Code) platform.HealthStatus {
	now := time.Now().UTC()
	if !s.registry.IsActive(code) {
		return platform.HealthStatus{
			Status:    platform.HealthStateInactive,
			LastCheck: now,
		}
	}

	adapter, ok := s.adapter(code)
	if !ok {
		return platform.HealthStatus{
			Status:    platform.HealthStateInactive,
			LastCheck: now,
		}
	}

	if _, err := adapter.GetOrders(ctx, "", 1); err != nil {
		s.logger.Warn("Platform health probe failed",
			zap.String("platform", code.String()),
			zap.Error(err))
		return platform.HealthStatus{
			Status:    platform.HealthStateError,
			Message:   err.Error(),
			LastCheck: now,
		}
	}

	return platform.HealthStatus{
		Status:    platform.HealthStateHealthy,
		LastCheck: now,
	}
}
