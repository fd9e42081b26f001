package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-test-secret-0123456789ab")

func testVerifier(t *testing.T) jwtx.Verifier {
	t.Helper()
	v, err := jwtx.NewVerifierHS256(testSecret, jwtx.VerifyOptions{})
	require.NoError(t, err)
	return v
}

func signTestToken(t *testing.T, subject, role string) string {
	t.Helper()
	s, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	token, err := s.Sign(jwtx.NewClaims(subject, role, "sid-1", time.Minute, "", time.Now()))
	require.NoError(t, err)
	return token
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test-User", UserIDFromContext(r.Context()))
		w.Header().Set("X-Test-Role", RoleFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	handler := Chain(echoPrincipal(), AuthnMiddleware(testVerifier(t)))

	t.Run("valid token attaches principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user-1", "admin"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", rec.Header().Get("X-Test-User"))
		require.Equal(t, "admin", rec.Header().Get("X-Test-Role"))
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user-1", "admin")+"tamper")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	verifier := testVerifier(t)

	t.Run("matching role passes", func(t *testing.T) {
		handler := Chain(echoPrincipal(),
			AuthnMiddleware(verifier),
			RequireRole("admin"),
		)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user-1", "admin"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role is 403, not 401", func(t *testing.T) {
		handler := Chain(echoPrincipal(),
			AuthnMiddleware(verifier),
			RequireRole("admin"),
		)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user-1", "user"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
	})

	t.Run("guard without gate is a wiring bug and fails as 500", func(t *testing.T) {
		handler := Chain(echoPrincipal(), RequireRole("admin"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RateLimitByIP(cfg))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1000").Code)
	require.Equal(t, http.StatusOK, do("10.0.0.1:1000").Code)

	limited := do("10.0.0.1:1000")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	require.NotEmpty(t, limited.Header().Get("Retry-After"))

	// A different client has its own bucket.
	require.Equal(t, http.StatusOK, do("10.0.0.2:1000").Code)
}
