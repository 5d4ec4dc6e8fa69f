package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"igp-sales-backend/internal/config"
	"igp-sales-backend/internal/models"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:   "test-secret-test-secret-test-secret!",
		CORSOrigins: "http://localhost:5173",
	}
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Lot{}, &models.Transaction{}, &models.AuditLog{}))
	return New(cfg, db)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerAndLogin(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register-admin", "", fiber.Map{
		"name":     "Admin",
		"email":    "admin@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "admin@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)
	return login.Token
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	// Only one admin can self-register.
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register-admin", "", fiber.Map{
		"name":     "Second Admin",
		"email":    "admin2@example.com",
		"password": "whatever-pass",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	decodeBody(t, resp, &me)
	assert.Equal(t, "Admin", me.Name)
	assert.Equal(t, "admin", me.Role)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/lots", "/api/transactions", "/api/reports/monthly"} {
		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/lots", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestSalesFlow(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/lots", token, fiber.Map{
		"product_name": "Shirt",
		"size":         "M",
		"stock":        10,
		"price":        100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var lot models.Lot
	decodeBody(t, resp, &lot)
	require.NotZero(t, lot.ID)

	resp = doJSON(t, app, http.MethodPost, "/api/transactions", token, fiber.Map{
		"buyer_name":   "Reyes, Ana",
		"product_name": "Shirt",
		"size":         "M",
		"quantity":     3,
		"amount":       300,
		"or_number":    "OR-1001",
		"date":         "2026-03-10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec models.Transaction
	decodeBody(t, resp, &rec)
	require.NotZero(t, rec.ID)

	resp = doJSON(t, app, http.MethodGet, "/api/lots", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lots []models.Lot
	decodeBody(t, resp, &lots)
	require.Len(t, lots, 1)
	assert.Equal(t, 7, lots[0].Stock)

	// Overselling is rejected without touching stock.
	resp = doJSON(t, app, http.MethodPost, "/api/transactions", token, fiber.Map{
		"buyer_name":   "Santos, Ben",
		"product_name": "Shirt",
		"size":         "M",
		"quantity":     20,
		"amount":       2000,
		"or_number":    "OR-1002",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflict struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &conflict)
	assert.Contains(t, conflict.Error, "insufficient stock")

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/transactions/%d", rec.ID), token, fiber.Map{
		"buyer_name":   "Reyes, Ana",
		"product_name": "Shirt",
		"size":         "M",
		"quantity":     5,
		"amount":       500,
		"or_number":    "OR-1001",
		"date":         "2026-03-10",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/lots", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &lots)
	require.Len(t, lots, 1)
	assert.Equal(t, 5, lots[0].Stock)

	resp = doJSON(t, app, http.MethodGet, "/api/reports/monthly?year=2026&month=3", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep struct {
		TotalTransactions int     `json:"total_transactions"`
		TotalItemsSold    int     `json:"total_items_sold"`
		TotalRevenue      float64 `json:"total_revenue"`
	}
	decodeBody(t, resp, &rep)
	assert.Equal(t, 1, rep.TotalTransactions)
	assert.Equal(t, 5, rep.TotalItemsSold)
	assert.Equal(t, 500.0, rep.TotalRevenue)
}

func TestCSVExport(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/lots", token, fiber.Map{
		"product_name": "Shirt",
		"size":         "M",
		"batch":        "1st Batch",
		"stock":        10,
		"price":        100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/transactions", token, fiber.Map{
		"buyer_name":     "Reyes, Ana",
		"program_course": "BSIT 3A",
		"product_name":   "Shirt",
		"size":           "M",
		"quantity":       2,
		"amount":         200,
		"or_number":      "OR-1001",
		"date":           "2026-03-10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/reports/monthly/export?year=2026&month=3&format=csv", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "monthly_report_2026_03.csv")

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, "Shirt (1st Batch)")
	assert.Contains(t, body, "NAME,COURSE,OR #,M,DATE,AMOUNT")
	assert.Contains(t, body, "\"Reyes, Ana\",BSIT 3A,OR-1001,2,2026-03-10,200.00")

	resp = doJSON(t, app, http.MethodGet, "/api/reports/monthly/export?year=2026&month=3&format=pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminOnlyRoutes(t *testing.T) {
	app := setupApp(t)
	adminToken := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/users", adminToken, fiber.Map{
		"name":     "Staff",
		"email":    "staff@example.com",
		"password": "staff-pass-123",
		"role":     "staff",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "staff@example.com",
		"password": "staff-pass-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)

	resp = doJSON(t, app, http.MethodPost, "/api/lots", adminToken, fiber.Map{
		"product_name": "Shirt",
		"size":         "M",
		"stock":        10,
		"price":        100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var lot models.Lot
	decodeBody(t, resp, &lot)

	// Staff can read and sell but not delete lots or add users.
	resp = doJSON(t, app, http.MethodGet, "/api/lots", login.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/lots/%d", lot.ID), login.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/users", login.Token, fiber.Map{
		"name":     "Other",
		"email":    "other@example.com",
		"password": "other-pass-123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/lots/%d", lot.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/audit-logs", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []models.AuditLog
	decodeBody(t, resp, &logs)
	require.NotEmpty(t, logs)
	assert.Equal(t, "Admin", logs[0].UserName)
}
