package kernel_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/internal/kernel"
	"github.com/roadassist/roadassist/pkg/cache"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cache.UseStore(cache.NewMemoryStore())
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.ServiceRequest{},
		&models.Mechanic{},
		&models.Payment{},
		&models.Review{},
	))

	srv := httptest.NewServer(kernel.NewHTTPKernel(db, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// client wraps http.Client with a cookie jar and JSON helpers.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body interface{}) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestRegisterLoginAndSessionIdentity(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	resp := c.do(http.MethodPost, "/api/register", map[string]string{
		"username": "alice", "password": "password-123", "role": "client",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data models.User `json:"data"`
	}
	decode(t, resp, &body)
	require.Equal(t, "alice", body.Data.Username)
	require.Equal(t, models.RoleClient, body.Data.Role)
}

func TestDuplicateRegisterIs400(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	payload := map[string]string{"username": "bob", "password": "password-123", "role": "client"}
	resp := c.do(http.MethodPost, "/api/register", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/api/register", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUnauthenticatedRequestsAre401(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	for _, path := range []string{"/api/user", "/api/service-requests", "/api/vehicles"} {
		resp := c.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestServiceRequestFlowOverHTTP(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	resp := c.do(http.MethodPost, "/api/register", map[string]string{
		"username": "carol", "password": "password-123", "role": "client",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/api/service-requests", map[string]interface{}{
		"serviceType": "towing",
		"description": "flat tire",
		"location":    map[string]float64{"lat": 12.9, "lng": 77.6},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data models.ServiceRequest `json:"data"`
	}
	decode(t, resp, &created)
	require.Equal(t, models.StatusPending, created.Data.Status)

	resp = c.do(http.MethodGet, "/api/service-requests?page=1&limit=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Data struct {
			Data       []models.ServiceRequest `json:"data"`
			Total      int64                   `json:"total"`
			Page       int                     `json:"page"`
			TotalPages int                     `json:"totalPages"`
		} `json:"data"`
	}
	decode(t, resp, &listing)
	require.EqualValues(t, 1, listing.Data.Total)
	require.Equal(t, 1, listing.Data.Page)
	require.Equal(t, 1, listing.Data.TotalPages)
	require.Len(t, listing.Data.Data, 1)
}

func TestValidationErrorsCarryFieldMessages(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	resp := c.do(http.MethodPost, "/api/register", map[string]string{
		"username": "x", "password": "short", "role": "pilot",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Errors)
	require.Contains(t, body.Errors, "role")
}

func TestAdminRoutesAreRoleGated(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	resp := c.do(http.MethodPost, "/api/register", map[string]string{
		"username": "dave", "password": "password-123", "role": "client",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodGet, "/api/mechanics/pending", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthEndpoint(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCachedListingsAreScopedPerUser(t *testing.T) {
	srv := newServer(t)

	alice := newClient(t, srv)
	resp := alice.do(http.MethodPost, "/api/register", map[string]string{
		"username": "alice", "password": "password-123", "role": "client",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = alice.do(http.MethodPost, "/api/service-requests", map[string]interface{}{
		"serviceType": "towing",
		"description": "flat tire",
		"location":    map[string]float64{"lat": 12.9, "lng": 77.6},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	listTotal := func(c *client) int64 {
		resp := c.do(http.MethodGet, "/api/service-requests?page=1&limit=10", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Data struct {
				Total int64 `json:"total"`
			} `json:"data"`
		}
		decode(t, resp, &body)
		return body.Data.Total
	}

	require.EqualValues(t, 1, listTotal(alice))

	// A second client hitting the same URL inside the cache TTL must see
	// their own empty listing, never the first client's rows.
	bob := newClient(t, srv)
	resp = bob.do(http.MethodPost, "/api/register", map[string]string{
		"username": "bob", "password": "password-123", "role": "client",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	require.EqualValues(t, 0, listTotal(bob))
	require.EqualValues(t, 1, listTotal(alice))
}

func TestWebsocketUpgradeThroughMiddleware(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	resp := c.do(http.MethodPost, "/api/register", map[string]string{
		"username": "dash", "password": "password-123", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	dialer := websocket.Dialer{Jar: c.http.Jar}
	conn, wsResp, err := dialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/service-requests", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Equal(t, http.StatusSwitchingProtocols, wsResp.StatusCode)
}
