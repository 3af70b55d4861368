package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finn_ledger/internal/core/ports/services"
	"github.com/SscSPs/finn_ledger/internal/handlers"
	"github.com/SscSPs/finn_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

func newRouter(t *testing.T, cfg *config.Config, accounts *MockAccountService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("finn_up 1\n"))
	})
	handlers.RegisterRoutes(r, cfg, &portssvc.ServiceContainer{
		Account:     accounts,
		Transaction: new(MockTransactionService),
	}, metrics)
	return r
}

// generateTestToken creates a dummy JWT for testing.
func generateTestToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    "finn-test",
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestRegisterRoutes_HealthAndMetrics(t *testing.T) {
	r := newRouter(t, &config.Config{IsProduction: true}, new(MockAccountService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "finn_up")
}

func TestRegisterRoutes_SwaggerOnlyOutsideProduction(t *testing.T) {
	prod := newRouter(t, &config.Config{IsProduction: true}, new(MockAccountService))
	w := httptest.NewRecorder()
	prod.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	dev := newRouter(t, &config.Config{IsProduction: false}, new(MockAccountService))
	w = httptest.NewRecorder()
	dev.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterRoutes_AuthEnabled(t *testing.T) {
	accounts := new(MockAccountService)
	accounts.On("ListAccounts", mock.Anything, 20, 0).Return([]domain.Account{}, nil).Once()
	r := newRouter(t, &config.Config{IsProduction: true, AuthEnabled: true, JWTSecret: testJWTSecret}, accounts)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, "svc-reporting"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"limit":20,"offset":0}`, w.Body.String())

	// Health stays public.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	accounts.AssertExpectations(t)
}

func TestRegisterRoutes_AuthDisabledByDefault(t *testing.T) {
	accounts := new(MockAccountService)
	accounts.On("GetAccountByID", mock.Anything, "acc-1").Return(&domain.Account{
		AccountID: "acc-1", Type: domain.Debt, ConversionFactor: 10000,
	}, nil).Once()
	r := newRouter(t, &config.Config{IsProduction: true}, accounts)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	accounts.AssertExpectations(t)
}
