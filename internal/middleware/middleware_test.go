package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrsuite/internal/auth"
	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/provider"
	"hrsuite/internal/repository"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type noProfiles struct{}

func (noProfiles) GetByID(context.Context, string) (*model.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}
func (noProfiles) GetByEmployeeID(context.Context, string) (*model.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}
func (noProfiles) Create(context.Context, *model.Profile) error { return nil }
func (noProfiles) Update(context.Context, *model.Profile) error { return nil }
func (noProfiles) List(context.Context, string, int, int) ([]model.Profile, int64, error) {
	return nil, 0, nil
}

type nopAudit struct{}

func (nopAudit) Log(context.Context, *model.AuditLog) error { return nil }
func (nopAudit) List(context.Context, repository.AuditFilter) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

func newRegistry() *auth.Registry {
	store := localstore.NewMemoryStore()
	backend := provider.NewBackend(provider.Options{JWTSecret: []byte("k")}, nil, nil,
		store.Namespace("auth:"), nil, nil, logger.Nop())
	return auth.NewRegistry(auth.RegistryConfig{Size: 8, DemoMode: true}, store, backend,
		noProfiles{}, nopAudit{}, nil, logger.Nop())
}

func newRouter(src InstanceSource, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Device(src, DeviceOptions{}, logger.Nop()))
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, DeviceIDFrom(c)))
	})
	r.GET("/x", chain...)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestDeviceIssuesCookieWhenMissing(t *testing.T) {
	r := newRouter(newRegistry())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DeviceCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, auth.ValidDeviceID(cookies[0].Value))
	assert.Equal(t, cookies[0].Value, decode(t, w).Data)
}

func TestDevicePrefersHeaderOverCookie(t *testing.T) {
	r := newRouter(newRegistry())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(DeviceHeader, "header-device-1")
	req.AddCookie(&http.Cookie{Name: DeviceCookie, Value: "cookie-device-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "header-device-1", decode(t, w).Data)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(DeviceHeader, "bad id!")
	req.AddCookie(&http.Cookie{Name: DeviceCookie, Value: "cookie-device-1"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "cookie-device-1", decode(t, w).Data)
}

type failingSource struct{}

func (failingSource) Get(context.Context, string) (*auth.Instance, error) {
	return nil, errors.New("redis down")
}

func TestDeviceFailsClosed(t *testing.T) {
	r := newRouter(failingSource{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", decode(t, w).Status)
}

func TestRequireIdentity(t *testing.T) {
	reg := newRegistry()
	r := newRouter(reg, RequireIdentity())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(DeviceHeader, "device-anon-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	inst, err := reg.Get(context.Background(), "device-signed-1")
	require.NoError(t, err)
	require.NoError(t, inst.Auth.SignIn(context.Background(), auth.Credentials{Email: "employee@company.com", Password: "Employee123!"}))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(DeviceHeader, "device-signed-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAccessFollowsMatrix(t *testing.T) {
	reg := newRegistry()
	ctx := context.Background()

	emp, err := reg.Get(ctx, "device-employee")
	require.NoError(t, err)
	require.NoError(t, emp.Auth.SignIn(ctx, auth.Credentials{Email: "employee@company.com", Password: "Employee123!"}))

	hr, err := reg.Get(ctx, "device-hr-0001")
	require.NoError(t, err)
	require.NoError(t, hr.Auth.SignIn(ctx, auth.Credentials{Email: "hr@company.com", Password: "HR123!"}))

	r := newRouter(reg, RequireAccess(permission.ModuleEmployees, permission.ActionRead))

	cases := []struct {
		device string
		want   int
	}{
		{"device-nobody-1", http.StatusUnauthorized},
		{"device-employee", http.StatusForbidden},
		{"device-hr-0001", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(DeviceHeader, tc.device)
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, tc.device)
	}
}

func TestActorFallsBackToInstanceIdentity(t *testing.T) {
	reg := newRegistry()
	inst, err := reg.Get(context.Background(), "device-master-1")
	require.NoError(t, err)
	require.NoError(t, inst.Auth.MasterLogin(context.Background()))

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Actor(c))

	c.Set(instanceKey, inst)
	require.NotNil(t, Actor(c))
	assert.Equal(t, permission.RoleMaster, Actor(c).Role)
}
