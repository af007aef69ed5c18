package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	platformapp "github.com/platehub/backend/internal/application/platform"
	"github.com/platehub/backend/internal/domain/catalog"
	"github.com/platehub/backend/internal/domain/ordering"
	"github.com/platehub/backend/internal/domain/platform"
	"github.com/platehub/backend/internal/interfaces/http/dto"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type stubAdapter struct {
	code platform.Code

	acceptErr error
	ordersErr error

	accepted []string
	rejected [][2]string
	statuses [][2]string
}

func (a *stubAdapter) Code() platform.Code { return a.code }

func (a *stubAdapter) SyncMenu(_ context.Context, products []catalog.ProductListing) (*platform.MenuSyncResult, error) {
	return &platform.MenuSyncResult{
		Platform:     a.code,
		TotalCount:   len(products),
		SuccessCount: len(products),
		SyncedAt:     time.Now().UTC(),
	}, nil
}

func (a *stubAdapter) GetProducts(context.Context) ([]catalog.ProductListing, error) {
	return []catalog.ProductListing{{ID: "p1", Name: "Adana Dürüm"}}, nil
}

func (a *stubAdapter) GetOrders(context.Context, string, int) ([]platform.UpstreamOrder, error) {
	return nil, a.ordersErr
}

func (a *stubAdapter) AcceptOrder(_ context.Context, orderID string) error {
	if a.acceptErr != nil {
		return a.acceptErr
	}
	a.accepted = append(a.accepted, orderID)
	return nil
}

func (a *stubAdapter) RejectOrder(_ context.Context, orderID, reason string) error {
	a.rejected = append(a.rejected, [2]string{orderID, reason})
	return nil
}

func (a *stubAdapter) UpdateOrderStatus(_ context.Context, orderID, status string) error {
	a.statuses = append(a.statuses, [2]string{orderID, status})
	return nil
}

func (a *stubAdapter) ConfirmOrder(_ context.Context, orderID string) error {
	a.accepted = append(a.accepted, orderID)
	return nil
}

func (a *stubAdapter) ConvertOrder(raw []byte) (*ordering.Order, error) {
	var payload struct {
		ID    string  `json:"id"`
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, platform.ErrInvalidPayload
	}
	return &ordering.Order{
		Platform:        a.code.String(),
		PlatformOrderID: payload.ID,
		Customer:        ordering.Customer{Name: "Misafir"},
		Items:           []ordering.OrderItem{},
		TotalAmount:     decimal.NewFromFloat(payload.Total),
		Status:          ordering.StatusPending,
	}, nil
}

func (a *stubAdapter) ValidateWebhook(*platform.WebhookRequest) error { return nil }

func (a *stubAdapter) CategoryID(string) string { return "genel" }

var _ platform.Adapter = (*stubAdapter)(nil)

type memOrderRepo struct {
	mu    sync.Mutex
	byKey map[string]*ordering.Order

	lastSortBy  string
	lastSortDir string
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{byKey: make(map[string]*ordering.Order)}
}

func (r *memOrderRepo) Save(_ context.Context, order *ordering.Order) (*ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := order.Platform + ":" + order.PlatformOrderID
	if stored, ok := r.byKey[key]; ok {
		return stored, ordering.ErrDuplicateOrder
	}
	stored := *order
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.byKey[key] = &stored
	return &stored, nil
}

func (r *memOrderRepo) FindByPlatformOrderID(_ context.Context, platformName, platformOrderID string) (*ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.byKey[platformName+":"+platformOrderID]; ok {
		return stored, nil
	}
	return nil, ordering.ErrOrderNotFound
}

func (r *memOrderRepo) ListByPlatform(_ context.Context, platformName string, offset, limit int, sortBy, sortDir string) ([]ordering.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSortBy = sortBy
	r.lastSortDir = sortDir
	var all []ordering.Order
	for _, o := range r.byKey {
		if o.Platform == platformName {
			all = append(all, *o)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status ordering.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.byKey {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return ordering.ErrOrderNotFound
}

var _ ordering.Repository = (*memOrderRepo)(nil)

type memProductRepo struct{}

func (memProductRepo) GetBranchProducts(context.Context, int64) ([]catalog.ProductListing, error) {
	return []catalog.ProductListing{
		{ID: "p1", Name: "Lahmacun", Price: decimal.NewFromInt(45), Category: "Lahmacun", IsActive: true},
	}, nil
}

var _ catalog.Repository = memProductRepo{}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestHub(t *testing.T) (*platformapp.HubService, *memOrderRepo) {
	t.Helper()
	orders := newMemOrderRepo()
	hub := platformapp.NewHubService(platformapp.HubServiceConfig{
		OrderRepo:   orders,
		ProductRepo: memProductRepo{},
		BranchID:    1,
		Logger:      zap.NewNop(),
	})
	return hub, orders
}

func stubConfig(code platform.Code, enabled bool) platform.Config {
	return platform.Config{
		Name:          code,
		BaseURL:       "https://api.example.com/v1",
		APIKey:        "test-key",
		WebhookSecret: "test-secret",
		Enabled:       enabled,
	}
}

func stubFactory(adapters map[platform.Code]*stubAdapter) AdapterFactory {
	return func(code platform.Code, req RegisterPlatformRequest) (platform.Adapter, platform.Config, error) {
		if !code.IsValid() {
			return nil, platform.Config{}, platform.ErrPlatformUnsupported
		}
		adapter := &stubAdapter{code: code}
		if adapters != nil {
			adapters[code] = adapter
		}
		return adapter, stubConfig(code, req.Enabled), nil
	}
}

func newTestRouter(h *PlatformHandler) *gin.Engine {
	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/platforms/register", h.RegisterPlatform)
	api.GET("/platforms/status", h.ListPlatformStatus)
	api.GET("/platforms/health", h.CheckHealth)
	api.GET("/platforms/recent-orders", h.RecentOrdersAcrossPlatforms)
	api.POST("/platforms/sync-menu/:branchId", h.SyncMenuToAll)
	api.GET("/platforms/:platform/status", h.GetPlatformStatus)
	api.PUT("/platforms/:platform/toggle", h.TogglePlatform)
	api.POST("/platforms/:platform/sync-menu/:branchId", h.SyncMenu)
	api.GET("/platforms/:platform/products", h.GetPlatformProducts)
	api.GET("/platforms/:platform/orders", h.ListOrders)
	api.GET("/platforms/:platform/recent-orders", h.RecentOrders)
	api.PUT("/platforms/:platform/orders/:id/status", h.UpdateOrderStatus)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ---------------------------------------------------------------------------
// Registry endpoints
// ---------------------------------------------------------------------------

func TestPlatformHandler_RegisterPlatform(t *testing.T) {
	hub, _ := newTestHub(t)
	h := NewPlatformHandler(hub, stubFactory(nil))
	router := newTestRouter(h)

	t.Run("registers a platform", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/platforms/register", RegisterPlatformRequest{
			Platform:      "getir",
			APIKey:        "key",
			WebhookSecret: "secret",
			MerchantID:    "rest-1",
			Enabled:       true,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.True(t, hub.IsActive("getir"))
	})

	t.Run("rejects unknown platform", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/platforms/register", RegisterPlatformRequest{
			Platform:      "ubereats",
			APIKey:        "key",
			WebhookSecret: "secret",
			MerchantID:    "rest-1",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodePlatformUnsupported, resp.Error.Code)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/platforms/register", gin.H{"platform": "getir"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPlatformHandler_TogglePlatform(t *testing.T) {
	hub, _ := newTestHub(t)
	adapter := &stubAdapter{code: platform.CodeTrendyol}
	require.NoError(t, hub.RegisterPlatform(adapter, stubConfig(platform.CodeTrendyol, true)))
	router := newTestRouter(NewPlatformHandler(hub, stubFactory(nil)))

	t.Run("deactivates", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/trendyol/toggle", gin.H{"active": false})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, hub.IsActive("trendyol"))
	})

	t.Run("reactivates", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/trendyol/toggle", gin.H{"active": true})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hub.IsActive("trendyol"))
	})

	t.Run("unregistered platform", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/migros/toggle", gin.H{"active": true})

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodePlatformNotRegistered, resp.Error.Code)
	})

	t.Run("missing active flag", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/trendyol/toggle", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPlatformHandler_Status(t *testing.T) {
	hub, _ := newTestHub(t)
	require.NoError(t, hub.RegisterPlatform(&stubAdapter{code: platform.CodeGetir}, stubConfig(platform.CodeGetir, true)))
	require.NoError(t, hub.RegisterPlatform(&stubAdapter{code: platform.CodeMigros}, stubConfig(platform.CodeMigros, false)))
	router := newTestRouter(NewPlatformHandler(hub, stubFactory(nil)))

	t.Run("single platform", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/getir/status", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"platform":"getir"`)
		assert.Contains(t, w.Body.String(), `"is_active":true`)
		// Credentials must never appear in status payloads
		assert.NotContains(t, w.Body.String(), "test-key")
		assert.NotContains(t, w.Body.String(), "test-secret")
	})

	t.Run("all platforms", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/status", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"platform":"getir"`)
		assert.Contains(t, w.Body.String(), `"platform":"migros"`)
	})

	t.Run("unregistered platform", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/yemeksepeti/status", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unsupported platform", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/doordash/status", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ---------------------------------------------------------------------------
// Menu sync endpoints
// ---------------------------------------------------------------------------

func TestPlatformHandler_SyncMenu(t *testing.T) {
	hub, _ := newTestHub(t)
	require.NoError(t, hub.RegisterPlatform(&stubAdapter{code: platform.CodeGetir}, stubConfig(platform.CodeGetir, true)))
	router := newTestRouter(NewPlatformHandler(hub, stubFactory(nil)))

	t.Run("syncs and records last sync", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/platforms/getir/sync-menu/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)

		status, err := hub.GetPlatformStatus("getir")
		require.NoError(t, err)
		assert.NotNil(t, status.LastSync)
	})

	t.Run("invalid branch id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/platforms/getir/sync-menu/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inactive platform", func(t *testing.T) {
		require.NoError(t, hub.TogglePlatform("getir", false))
		defer func() { require.NoError(t, hub.TogglePlatform("getir", true)) }()

		w := doJSON(t, router, http.MethodPost, "/api/v1/platforms/getir/sync-menu/1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodePlatformInactive, resp.Error.Code)
	})

	t.Run("sync to all", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/platforms/sync-menu/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"getir"`)
	})
}

func TestPlatformHandler_GetPlatformProducts(t *testing.T) {
	hub, _ := newTestHub(t)
	require.NoError(t, hub.RegisterPlatform(&stubAdapter{code: platform.CodeGetir}, stubConfig(platform.CodeGetir, true)))
	router := newTestRouter(NewPlatformHandler(hub, stubFactory(nil)))

	w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/getir/products", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Adana Dürüm")
	assert.Contains(t, w.Body.String(), `"total":1`)
}

// ---------------------------------------------------------------------------
// Order endpoints
// ---------------------------------------------------------------------------

func seedOrder(t *testing.T, orders *memOrderRepo, platformName, platformOrderID string) *ordering.Order {
	t.Helper()
	saved, err := orders.Save(context.Background(), &ordering.Order{
		Platform:        platformName,
		PlatformOrderID: platformOrderID,
		Customer:        ordering.Customer{Name: "Ayşe Yılmaz"},
		Items:           []ordering.OrderItem{},
		TotalAmount:     decimal.NewFromInt(150),
		Status:          ordering.StatusPending,
	})
	require.NoError(t, err)
	return saved
}

func TestPlatformHandler_ListOrders(t *testing.T) {
	hub, orders := newTestHub(t)
	require.NoError(t, hub.RegisterPlatform(&stubAdapter{code: platform.CodeGetir}, stubConfig(platform.CodeGetir, true)))
	seedOrder(t, orders, "getir", "ord-1")
	seedOrder(t, orders, "getir", "ord-2")
	router := newTestRouter(NewPlatformHandler(hub, stubFactory(nil)))

	t.Run("paged listing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/getir/orders?page=1&page_size=1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.PageSize)
	})

	t.Run("sort params reach the repository", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/getir/orders?order_by=total_amount&order_dir=asc", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "total_amount", orders.lastSortBy)
		assert.Equal(t, "asc", orders.lastSortDir)
	})

	t.Run("recent orders", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/getir/recent-orders", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ord-1")
	})

	t.Run("recent orders across platforms", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/recent-orders", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unsupported platform", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/doordash/orders", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPlatformHandler_UpdateOrderStatus(t *testing.T) {
	hub, orders := newTestHub(t)
	adapter := &stubAdapter{code: platform.CodeGetir}
	require.NoError(t, hub.RegisterPlatform(adapter, stubConfig(platform.CodeGetir, true)))
	seedOrder(t, orders, "getir", "ord-7")
	router := newTestRouter(NewPlatformHandler(hub, stubFactory(nil)))

	t.Run("confirmed routes to accept", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/getir/orders/ord-7/status", gin.H{"status": "confirmed"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, adapter.accepted, "ord-7")

		stored, err := orders.FindByPlatformOrderID(context.Background(), "getir", "ord-7")
		require.NoError(t, err)
		assert.Equal(t, ordering.StatusConfirmed, stored.Status)
	})

	t.Run("cancelled routes to reject with reason", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/getir/orders/ord-7/status", gin.H{
			"status": "cancelled",
			"reason": "Malzeme bitti",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, adapter.rejected, 1)
		assert.Equal(t, [2]string{"ord-7", "Malzeme bitti"}, adapter.rejected[0])
	})

	t.Run("other statuses propagate", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/getir/orders/ord-7/status", gin.H{"status": "preparing"})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, adapter.statuses)
		assert.Equal(t, [2]string{"ord-7", "preparing"}, adapter.statuses[len(adapter.statuses)-1])
	})

	t.Run("unknown status", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/getir/orders/ord-7/status", gin.H{"status": "teleported"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream failure maps to bad gateway", func(t *testing.T) {
		adapter.acceptErr = assert.AnError
		defer func() { adapter.acceptErr = nil }()

		w := doJSON(t, router, http.MethodPut, "/api/v1/platforms/getir/orders/ord-7/status", gin.H{"status": "confirmed"})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeUpstreamUnavailable, resp.Error.Code)
	})
}

// ---------------------------------------------------------------------------
// Health endpoint
// ---------------------------------------------------------------------------

func TestPlatformHandler_CheckHealth(t *testing.T) {
	hub, _ := newTestHub(t)
	healthy := &stubAdapter{code: platform.CodeGetir}
	failing := &stubAdapter{code: platform.CodeTrendyol, ordersErr: assert.AnError}
	require.NoError(t, hub.RegisterPlatform(healthy, stubConfig(platform.CodeGetir, true)))
	require.NoError(t, hub.RegisterPlatform(failing, stubConfig(platform.CodeTrendyol, true)))
	require.NoError(t, hub.RegisterPlatform(&stubAdapter{code: platform.CodeMigros}, stubConfig(platform.CodeMigros, false)))
	router := newTestRouter(NewPlatformHandler(hub, stubFactory(nil)))

	w := doJSON(t, router, http.MethodGet, "/api/v1/platforms/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data map[string]platform.HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, platform.HealthStateHealthy, resp.Data["getir"].Status)
	assert.Equal(t, platform.HealthStateError, resp.Data["trendyol"].Status)
	assert.Equal(t, platform.HealthStateInactive, resp.Data["migros"].Status)
}
