//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ElenaG-E/temucosoft/internal/config"
	"github.com/ElenaG-E/temucosoft/internal/infra"
	"github.com/ElenaG-E/temucosoft/internal/router"
	"github.com/ElenaG-E/temucosoft/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, headers map[string]string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func auth(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server     *httptest.Server
	adminToken string
	branchID   string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("temucosoft_test"),
		tcPostgres.WithUsername("temucosoft"),
		tcPostgres.WithPassword("temucosoft"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed one company with an ADMIN_CLIENTE (covers every tenant route)
	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		INSERT INTO companies (name, rut, email) VALUES ('E2E SpA', '76086428-5', 'e2e@example.cl')
	`).Error)
	require.NoError(t, db.Exec(`
		INSERT INTO users (company_id, username, email, rut, password_hash, role)
		SELECT id, 'admin@e2e.test', 'admin@e2e.test', '12345678-5', ?, 'ADMIN_CLIENTE' FROM companies
	`, string(hash)).Error)

	dispatcher := worker.NewDispatcher(rdb)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, dispatcher, smtpCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "e2e-password"}), nil)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	branchResp := do(t, srv, "POST", "/v1/branches",
		jsonBody(t, map[string]any{"name": "Casa Matriz", "address": "Calle Prat 123"}),
		auth(login.AccessToken))
	require.Equal(t, http.StatusCreated, branchResp.StatusCode)
	var branch struct {
		ID string `json:"id"`
	}
	decodeJSON(t, branchResp, &branch)

	return &testEnv{server: srv, adminToken: login.AccessToken, branchID: branch.ID}
}

func (env *testEnv) createProduct(t *testing.T, sku string, price, cost float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"sku": sku, "name": "Producto " + sku, "price": price, "cost": cost, "category": "E2E",
		}), auth(env.adminToken))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func (env *testEnv) receiveStock(t *testing.T, productID string, qty int) {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/purchases",
		jsonBody(t, map[string]any{
			"branch_id": env.branchID,
			"items":     []map[string]any{{"product_id": productID, "quantity": qty}},
		}), auth(env.adminToken))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func (env *testEnv) stockOf(t *testing.T, productID string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/inventory", nil, auth(env.adminToken))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []struct {
		ProductID string `json:"product_id"`
		Stock     int    `json:"stock"`
	}
	decodeJSON(t, resp, &rows)
	for _, row := range rows {
		if row.ProductID == productID {
			return row.Stock
		}
	}
	return 0
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_PurchaseThenSale(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "E2E-001", 1500, 900)
	env.receiveStock(t, productID, 20)
	require.Equal(t, 20, env.stockOf(t, productID))

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"branch_id":      env.branchID,
			"payment_method": "EFECTIVO",
			"items":          []map[string]any{{"product_id": productID, "quantity": 4}},
		}), auth(env.adminToken))
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		Total string `json:"total"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "6000", sale.Total)

	assert.Equal(t, 16, env.stockOf(t, productID))
}

func TestE2E_SaleBeyondStockRejected(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "E2E-002", 1000, 600)
	env.receiveStock(t, productID, 3)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"branch_id":      env.branchID,
			"payment_method": "TARJETA",
			"items":          []map[string]any{{"product_id": productID, "quantity": 5}},
		}), auth(env.adminToken))
	assert.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	// all-or-nothing: the failed sale must not have touched the ledger
	assert.Equal(t, 3, env.stockOf(t, productID))
}

func TestE2E_MultiLineSaleRollsBackEarlierLines(t *testing.T) {
	env := setupTestEnv(t)

	okProduct := env.createProduct(t, "E2E-010", 1200, 700)
	shortProduct := env.createProduct(t, "E2E-011", 3400, 2100)
	env.receiveStock(t, okProduct, 8)
	env.receiveStock(t, shortProduct, 2)

	// first line decrements fine, second exceeds stock — the whole sale
	// must roll back, leaving the first product's ledger untouched
	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"branch_id":      env.branchID,
			"payment_method": "EFECTIVO",
			"items": []map[string]any{
				{"product_id": okProduct, "quantity": 5},
				{"product_id": shortProduct, "quantity": 3},
			},
		}), auth(env.adminToken))
	assert.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	assert.Equal(t, 8, env.stockOf(t, okProduct))
	assert.Equal(t, 2, env.stockOf(t, shortProduct))
}

func TestE2E_OrderLifecycleAndCancellation(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "E2E-003", 2500, 1500)
	env.receiveStock(t, productID, 10)

	orderResp := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{
			"branch_id":    env.branchID,
			"client_name":  "María Pérez",
			"client_email": "maria@example.cl",
			"items":        []map[string]any{{"product_id": productID, "quantity": 3}},
		}), auth(env.adminToken))
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)
	var order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, orderResp, &order)
	assert.Equal(t, "PENDIENTE", order.Status)
	assert.Equal(t, 7, env.stockOf(t, productID))

	// skip ENVIADO → 409
	badResp := do(t, env.server, "PATCH", "/v1/orders/"+order.ID+"/status",
		jsonBody(t, map[string]string{"status": "ENTREGADO"}), auth(env.adminToken))
	assert.Equal(t, http.StatusConflict, badResp.StatusCode)
	badResp.Body.Close()

	// cancel restores stock
	cancelResp := do(t, env.server, "PATCH", "/v1/orders/"+order.ID+"/status",
		jsonBody(t, map[string]string{"status": "ANULADA"}), auth(env.adminToken))
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)
	cancelResp.Body.Close()
	assert.Equal(t, 10, env.stockOf(t, productID))
}

func TestE2E_GuestCartMergeAndCheckout(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "E2E-004", 3000, 2000)
	env.receiveStock(t, productID, 5)

	// guest fills a session cart, no token
	sessionKey := "e2e-session-key"
	addResp := do(t, env.server, "POST", "/v1/cart",
		jsonBody(t, map[string]any{
			"product_id": productID, "quantity": 2, "session_key": sessionKey,
		}), nil)
	require.Equal(t, http.StatusOK, addResp.StatusCode)
	addResp.Body.Close()

	// login with the session key merges the cart
	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{
			"username": "admin@e2e.test", "password": "e2e-password", "session_key": sessionKey,
		}), nil)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	cartResp := do(t, env.server, "GET", "/v1/cart", nil, auth(login.AccessToken))
	require.Equal(t, http.StatusOK, cartResp.StatusCode)
	var cart struct {
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
	}
	decodeJSON(t, cartResp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	checkoutResp := do(t, env.server, "POST", "/v1/cart/checkout",
		jsonBody(t, map[string]any{
			"branch_id":    env.branchID,
			"client_name":  "Admin E2E",
			"client_email": "admin@e2e.test",
		}), auth(login.AccessToken))
	require.Equal(t, http.StatusCreated, checkoutResp.StatusCode)
	var placed struct {
		Status string `json:"status"`
	}
	decodeJSON(t, checkoutResp, &placed)
	assert.Equal(t, "PENDIENTE", placed.Status)
	assert.Equal(t, 3, env.stockOf(t, productID))

	// and the cart is empty now
	emptyResp := do(t, env.server, "GET", "/v1/cart", nil, auth(login.AccessToken))
	decodeJSON(t, emptyResp, &cart)
	assert.Empty(t, cart.Items)
}

func TestE2E_PublicRUTValidation(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/validate-rut",
		jsonBody(t, map[string]string{"rut": "76086428-5"}), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verdict struct {
		Valid bool `json:"valid"`
	}
	decodeJSON(t, resp, &verdict)
	assert.True(t, verdict.Valid)

	resp = do(t, env.server, "POST", "/v1/validate-rut",
		jsonBody(t, map[string]string{"rut": "76086428-9"}), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bad struct {
		Valid    bool   `json:"valid"`
		Computed string `json:"computed_dv"`
	}
	decodeJSON(t, resp, &bad)
	assert.False(t, bad.Valid)
	assert.Equal(t, "5", bad.Computed)
}

func TestE2E_PublicPriceLookup(t *testing.T) {
	env := setupTestEnv(t)

	env.createProduct(t, "E2E-005", 1990, 1200)

	// first hit fills the cache, second is served from it — same body both times
	for i := 0; i < 2; i++ {
		resp := do(t, env.server, "GET", "/v1/price/E2E-005", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var price struct {
			SKU   string `json:"sku"`
			Price string `json:"price"`
		}
		decodeJSON(t, resp, &price)
		assert.Equal(t, "E2E-005", price.SKU)
		assert.Equal(t, "1990", price.Price)
	}
}
