package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"outlethub-api/internal/event"
	"outlethub-api/internal/handler"
	"outlethub-api/internal/middleware"
	"outlethub-api/internal/repository"
	"outlethub-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens := service.NewTokenService("test-secret", 720*time.Hour)
	outletSvc := service.NewOutletService(store.Outlets(), tokens)
	statsSvc := service.NewStatsService(store.Outlets(), store.Products(), nil)
	registrationSvc := service.NewRegistrationService(store.Users(), outletSvc, tokens, true)

	events := event.NewDispatcher()
	events.Subscribe(statsSvc.HandleProductEvent)
	productSvc := service.NewProductService(store.Products(), store.Outlets(), events)

	srv := httptest.NewServer(New(Config{
		StatusHandler:   handler.NewStatusHandler("outlethub-api", "test", "test"),
		OutletHandler:   handler.NewOutletHandler(outletSvc),
		AuthHandler:     handler.NewAuthHandler(registrationSvc),
		StatsHandler:    handler.NewStatsHandler(statsSvc),
		ProductHandler:  handler.NewProductHandler(productSvc),
		MutationHandler: handler.NewMutationHandler(outletSvc, registrationSvc, tokens),
		AdminHandler:    handler.NewAdminHandler(store, nil),
		AuthMiddleware:  middleware.NewAuthMiddleware(tokens),
	}))
	t.Cleanup(srv.Close)
	return srv
}

// do issues a request and decodes the response envelope into a generic map.
func do(t *testing.T, srv *httptest.Server, method, path, token string, payload interface{}) (int, string, map[string]interface{}) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope))
	}
	return resp.StatusCode, string(raw), envelope
}

func data(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "envelope has no data object: %v", envelope)
	return d
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	code, _, envelope := do(t, srv, http.MethodGet, "/api/status", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", data(t, envelope)["status"])
}

func TestOutletAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	code, raw, envelope := do(t, srv, http.MethodPost, "/api/v1/outlet/register", "", map[string]string{
		"name":     "Alice Store",
		"username": "alice",
		"password": "s3cret",
		"city":     "Pune",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.NotContains(t, raw, `"password"`)
	assert.Equal(t, "alice", data(t, envelope)["username"])

	t.Run("duplicate username conflicts", func(t *testing.T) {
		code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/outlet/register", "", map[string]string{
			"username": "alice", "password": "other",
		})
		assert.Equal(t, http.StatusConflict, code)
		msg, _ := json.Marshal(envelope)
		assert.Contains(t, string(msg), "Username 'alice' is already taken. Please choose a different username.")
	})

	t.Run("login and access a protected route", func(t *testing.T) {
		code, raw, envelope := do(t, srv, http.MethodPost, "/api/v1/outlet/login", "", map[string]string{
			"username": "alice", "password": "s3cret",
		})
		require.Equal(t, http.StatusOK, code)
		assert.NotContains(t, raw, `"password"`)

		d := data(t, envelope)
		token, _ := d["jwt"].(string)
		require.NotEmpty(t, token)

		code, raw, envelope = do(t, srv, http.MethodGet, "/api/v1/outlet/me", token, nil)
		assert.Equal(t, http.StatusOK, code)
		assert.NotContains(t, raw, `"password"`)
		assert.Equal(t, "alice", data(t, envelope)["username"])
	})

	t.Run("wrong credentials get a generic message", func(t *testing.T) {
		codeWrong, _, envWrong := do(t, srv, http.MethodPost, "/api/v1/outlet/login", "", map[string]string{
			"username": "alice", "password": "nope",
		})
		codeUnknown, _, envUnknown := do(t, srv, http.MethodPost, "/api/v1/outlet/login", "", map[string]string{
			"username": "ghost", "password": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, codeWrong)
		assert.Equal(t, codeWrong, codeUnknown)
		assert.Equal(t, envWrong["error"], envUnknown["error"])
	})

	t.Run("protected route rejects missing and user tokens", func(t *testing.T) {
		code, _, _ := do(t, srv, http.MethodGet, "/api/v1/outlet/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, code)

		_, _, envelope := do(t, srv, http.MethodPost, "/api/v1/auth/local/customer/register", "", map[string]string{
			"username": "custtok", "email": "custtok@example.com", "password": "pw",
		})
		userToken, _ := data(t, envelope)["jwt"].(string)
		require.NotEmpty(t, userToken)

		code, raw, _ := do(t, srv, http.MethodGet, "/api/v1/outlet/me", userToken, nil)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Contains(t, raw, "Invalid token type")
	})

	t.Run("profile update through the protected route", func(t *testing.T) {
		_, _, envelope := do(t, srv, http.MethodPost, "/api/v1/outlet/login", "", map[string]string{
			"username": "alice", "password": "s3cret",
		})
		d := data(t, envelope)
		token, _ := d["jwt"].(string)
		outlet := d["outlet"].(map[string]interface{})
		id := int64(outlet["id"].(float64))

		code, raw, envelope := do(t, srv, http.MethodPut, fmt.Sprintf("/api/v1/outlet/%d", id), token, map[string]string{
			"city": "Mumbai",
		})
		assert.Equal(t, http.StatusOK, code)
		assert.NotContains(t, raw, `"password"`)
		assert.Equal(t, "Mumbai", data(t, envelope)["city"])
	})
}

func TestSellerRegistrationProvisionsOutlet(t *testing.T) {
	srv := newTestServer(t)

	code, raw, envelope := do(t, srv, http.MethodPost, "/api/v1/auth/local/seller/register", "", map[string]string{
		"username": "sally", "email": "sally@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, raw, `"password"`)

	d := data(t, envelope)
	user := d["user"].(map[string]interface{})
	role := user["role"].(map[string]interface{})
	assert.Equal(t, "seller", role["name"])

	// The provisioned outlet accepts the seller's password.
	code, _, _ = do(t, srv, http.MethodPost, "/api/v1/outlet/login", "", map[string]string{
		"username": "outlet_sally", "password": "pw",
	})
	assert.Equal(t, http.StatusOK, code)

	t.Run("duplicate email on register", func(t *testing.T) {
		code, raw, _ := do(t, srv, http.MethodPost, "/api/v1/auth/local/customer/register", "", map[string]string{
			"username": "sally2", "email": "sally@example.com", "password": "pw",
		})
		assert.Equal(t, http.StatusConflict, code)
		assert.Contains(t, raw, "sally@example.com")
	})
}

func TestProductLifecycleAndStatsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	_, _, envelope := do(t, srv, http.MethodPost, "/api/v1/outlet/register", "", map[string]string{
		"username": "shop", "password": "pw",
	})
	outletID := int64(data(t, envelope)["id"].(float64))

	code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/products/", "", map[string]interface{}{
		"outlet": outletID, "name": "widget", "stockQuantity": 5, "totalProduct": 8, "price": 10,
	})
	require.Equal(t, http.StatusCreated, code)
	productID := int64(data(t, envelope)["id"].(float64))

	t.Run("create without outlet is rejected", func(t *testing.T) {
		code, raw, _ := do(t, srv, http.MethodPost, "/api/v1/products/", "", map[string]interface{}{
			"name": "orphan",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, raw, "Outlet is required")
	})

	t.Run("lifecycle keeps outlet counters current", func(t *testing.T) {
		_, _, envelope := do(t, srv, http.MethodPost, "/api/v1/outlet/login", "", map[string]string{
			"username": "shop", "password": "pw",
		})
		outlet := data(t, envelope)["outlet"].(map[string]interface{})
		assert.Equal(t, float64(1), outlet["totalProducts"])
		assert.Equal(t, float64(5), outlet["totalQuantity"])
		assert.Equal(t, float64(30), outlet["totalRevenue"])
	})

	t.Run("manual recompute endpoint", func(t *testing.T) {
		code, _, envelope := do(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/outlets/%d/update-stats", outletID), "", nil)
		assert.Equal(t, http.StatusOK, code)
		d := data(t, envelope)
		assert.Equal(t, "Outlet statistics updated successfully", d["message"])
		stats := d["data"].(map[string]interface{})
		assert.Equal(t, float64(30), stats["totalRevenue"])
	})

	t.Run("batch recompute endpoint", func(t *testing.T) {
		code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/outlets/recalculate-all-stats", "", nil)
		assert.Equal(t, http.StatusOK, code)
		d := data(t, envelope)
		assert.Equal(t, "All outlet statistics recalculated", d["message"])
		results := d["results"].([]interface{})
		require.Len(t, results, 1)
		assert.Equal(t, true, results[0].(map[string]interface{})["success"])
	})

	t.Run("delete clears the counters", func(t *testing.T) {
		code, _, _ := do(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", productID), "", nil)
		require.Equal(t, http.StatusNoContent, code)

		_, _, envelope := do(t, srv, http.MethodGet, "/api/v1/admin/stats", "", nil)
		d := data(t, envelope)
		assert.Equal(t, float64(0), d["total_products"])
		assert.Equal(t, false, d["snapshot_cache"])

		code, _, envelope = do(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/outlets/%d/update-stats", outletID), "", nil)
		require.Equal(t, http.StatusOK, code)
		stats := data(t, envelope)["data"].(map[string]interface{})
		assert.Equal(t, float64(0), stats["totalRevenue"])
	})

	t.Run("unknown outlet on recompute", func(t *testing.T) {
		code, _, _ := do(t, srv, http.MethodPost, "/api/v1/outlets/9999/update-stats", "", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestMutationEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("outletRegister with wrapped input", func(t *testing.T) {
		code, raw, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/outletRegister", "", map[string]interface{}{
			"input": map[string]string{"username": "mut", "password": "pw"},
		})
		require.Equal(t, http.StatusOK, code)
		assert.NotContains(t, raw, `"password"`)
		d := data(t, envelope)
		assert.Equal(t, true, d["success"])
		assert.Equal(t, "Outlet created successfully", d["message"])
	})

	t.Run("outletLogin with bare body", func(t *testing.T) {
		code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/outletLogin", "", map[string]string{
			"username": "mut", "password": "pw",
		})
		require.Equal(t, http.StatusOK, code)
		d := data(t, envelope)
		assert.Equal(t, true, d["success"])
		jwt, _ := d["jwt"].(string)
		assert.NotEmpty(t, jwt)
	})

	t.Run("domain failure stays HTTP 200 with success=false", func(t *testing.T) {
		code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/outletLogin", "", map[string]string{
			"username": "mut", "password": "wrong",
		})
		require.Equal(t, http.StatusOK, code)
		d := data(t, envelope)
		assert.Equal(t, false, d["success"])
		assert.Equal(t, "Invalid credentials", d["message"])
	})

	t.Run("sellerRegister", func(t *testing.T) {
		code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/sellerRegister", "", map[string]interface{}{
			"input": map[string]string{"username": "mutsel", "email": "mutsel@example.com", "password": "pw"},
		})
		require.Equal(t, http.StatusOK, code)
		d := data(t, envelope)
		assert.Equal(t, true, d["success"])
		assert.Equal(t, "Registration successful", d["message"])
	})

	t.Run("updateProfile with an outlet token", func(t *testing.T) {
		_, _, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/outletLogin", "", map[string]string{
			"username": "mut", "password": "pw",
		})
		token, _ := data(t, envelope)["jwt"].(string)
		require.NotEmpty(t, token)

		code, raw, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/updateProfile", token, map[string]interface{}{
			"input": map[string]string{"city": "Nagpur"},
		})
		require.Equal(t, http.StatusOK, code)
		assert.NotContains(t, raw, `"password"`)
		d := data(t, envelope)
		assert.Equal(t, true, d["success"])
		assert.Equal(t, "Profile updated successfully", d["message"])
		outlet := d["outlet"].(map[string]interface{})
		assert.Equal(t, "Nagpur", outlet["city"])
	})

	t.Run("updateProfile with a seller token syncs the default outlet", func(t *testing.T) {
		_, _, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/sellerRegister", "", map[string]interface{}{
			"input": map[string]string{"username": "syncer", "email": "syncer@example.com", "password": "pw", "city": "Pune"},
		})
		token, _ := data(t, envelope)["jwt"].(string)
		require.NotEmpty(t, token)

		code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/updateProfile", token, map[string]string{
			"city": "Surat",
		})
		require.Equal(t, http.StatusOK, code)
		d := data(t, envelope)
		assert.Equal(t, true, d["success"])
		user := d["user"].(map[string]interface{})
		assert.Equal(t, "Surat", user["city"])

		_, _, envelope = do(t, srv, http.MethodPost, "/api/v1/mutation/outletLogin", "", map[string]string{
			"username": "outlet_syncer", "password": "pw",
		})
		outlet := data(t, envelope)["outlet"].(map[string]interface{})
		assert.Equal(t, "Surat", outlet["city"])
	})

	t.Run("updateProfile without a token stays HTTP 200", func(t *testing.T) {
		code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/mutation/updateProfile", "", map[string]string{
			"city": "Nowhere",
		})
		require.Equal(t, http.StatusOK, code)
		d := data(t, envelope)
		assert.Equal(t, false, d["success"])
		assert.Equal(t, "No token provided", d["message"])
	})

	t.Run("unknown mutation", func(t *testing.T) {
		code, _, _ := do(t, srv, http.MethodPost, "/api/v1/mutation/dropTables", "", map[string]string{})
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestProvisioningEndpoints(t *testing.T) {
	srv := newTestServer(t)

	_, _, envelope := do(t, srv, http.MethodPost, "/api/v1/auth/local/customer/register", "", map[string]string{
		"username": "justcust", "email": "justcust@example.com", "password": "pw",
	})
	customerID := int64(data(t, envelope)["user"].(map[string]interface{})["id"].(float64))

	t.Run("customer cannot be provisioned", func(t *testing.T) {
		code, raw, _ := do(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/auth/create-outlet/%d", customerID), "", nil)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, raw, "not a seller")
	})

	t.Run("bulk provisioning reports per-seller outcomes", func(t *testing.T) {
		_, _, _ = do(t, srv, http.MethodPost, "/api/v1/auth/local/seller/register", "", map[string]string{
			"username": "bulk", "email": "bulk@example.com", "password": "pw",
		})

		code, _, envelope := do(t, srv, http.MethodPost, "/api/v1/auth/create-outlets-for-all-sellers", "", nil)
		require.Equal(t, http.StatusOK, code)
		d := data(t, envelope)
		assert.Equal(t, "Processed all sellers", d["message"])
		assert.Equal(t, float64(1), d["totalSellers"])
		results := d["results"].([]interface{})
		require.Len(t, results, 1)
		assert.Equal(t, "Already has outlets", results[0].(map[string]interface{})["message"])
	})
}

