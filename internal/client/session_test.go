package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atrium-app/atrium/internal/client"
	_ "github.com/atrium-app/atrium/testing"
)

type recordingNavigator struct {
	routes []client.Route
}

func (n *recordingNavigator) To(route client.Route) {
	n.routes = append(n.routes, route)
}

func newAPI(t *testing.T, handler http.Handler) *client.HTTPAPI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return client.NewHTTPAPI(&client.Config{BaseURL: server.URL, RequestTimeout: 5 * time.Second})
}

func identityHandler(t *testing.T, wantToken, body string, status int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/me", r.URL.Path)
		require.Equal(t, "Bearer "+wantToken, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestResolveWithoutCredential(t *testing.T) {
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	nav := &recordingNavigator{}
	session := client.NewSession(api, &client.MemTokenStore{}, nav, nil)

	require.Equal(t, client.StateUnauthenticated, session.State())
	session.Resolve(context.Background())

	require.Nil(t, session.User())
	require.Equal(t, client.StateUnauthenticated, session.State())
	require.Empty(t, nav.routes)
}

func TestResolveInstallsValidUser(t *testing.T) {
	api := newAPI(t, identityHandler(t, "tok",
		`{"user":{"firstname":"Ada","lastname":"Lovelace","email":"ada@example.com"}}`, http.StatusOK))
	store := &client.MemTokenStore{}
	require.NoError(t, store.Set("tok"))
	session := client.NewSession(api, store, &recordingNavigator{}, nil)

	require.Equal(t, client.StateResolving, session.State())
	session.Resolve(context.Background())

	require.Equal(t, client.StateAuthenticated, session.State())
	require.Equal(t, "Ada", session.User().FirstName)
	require.Equal(t, "Lovelace", session.User().LastName)
	require.Equal(t, "tok", store.Get())
}

func TestResolveRejectionClearsCredential(t *testing.T) {
	api := newAPI(t, identityHandler(t, "tok", `{"message":"invalid token"}`, http.StatusUnauthorized))
	store := &client.MemTokenStore{}
	require.NoError(t, store.Set("tok"))
	session := client.NewSession(api, store, &recordingNavigator{}, nil)

	session.Resolve(context.Background())

	require.Nil(t, session.User())
	require.Equal(t, client.StateUnauthenticated, session.State())
	require.Empty(t, store.Get())
}

func TestResolveTransportFailureClearsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	api := client.NewHTTPAPI(&client.Config{BaseURL: server.URL, RequestTimeout: time.Second})

	store := &client.MemTokenStore{}
	require.NoError(t, store.Set("tok"))
	session := client.NewSession(api, store, &recordingNavigator{}, nil)

	session.Resolve(context.Background())

	require.Nil(t, session.User())
	require.Empty(t, store.Get())
}

func TestLoginFailureReturnsServerMessage(t *testing.T) {
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid email or password"}`))
	}))
	store := &client.MemTokenStore{}
	nav := &recordingNavigator{}
	session := client.NewSession(api, store, nav, nil)

	err := session.Login(context.Background(), "ada@example.com", "wrong")

	require.EqualError(t, err, "invalid email or password")
	require.Nil(t, session.User())
	require.Empty(t, store.Get())
	require.Empty(t, nav.routes)
}

func TestLoginSuccessInstallsUserAndNavigates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"fresh"}`))
	})
	mux.HandleFunc("/user/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"firstname":"Ada","lastname":"Lovelace"}}`))
	})
	api := newAPI(t, mux)
	store := &client.MemTokenStore{}
	nav := &recordingNavigator{}
	session := client.NewSession(api, store, nav, nil)

	err := session.Login(context.Background(), "ada@example.com", "correct horse")

	require.NoError(t, err)
	require.Equal(t, "Ada", session.User().FirstName)
	require.Equal(t, "Lovelace", session.User().LastName)
	require.Equal(t, "fresh", store.Get())
	require.Equal(t, []client.Route{client.RouteProfile}, nav.routes)
}

func TestLoginWithIncompleteIdentityFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"fresh"}`))
	})
	mux.HandleFunc("/user/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"firstname":"Ada"}}`))
	})
	api := newAPI(t, mux)
	store := &client.MemTokenStore{}
	nav := &recordingNavigator{}
	session := client.NewSession(api, store, nav, nil)

	err := session.Login(context.Background(), "ada@example.com", "correct horse")

	require.ErrorIs(t, err, client.ErrProfileUnavailable)
	require.Nil(t, session.User())
	require.Empty(t, store.Get())
	require.Empty(t, nav.routes)
}

func TestLogoutAlwaysClearsAndNavigates(t *testing.T) {
	api := newAPI(t, identityHandler(t, "tok", `{"user":{"firstname":"Ada","lastname":"Lovelace"}}`, http.StatusOK))
	store := &client.MemTokenStore{}
	require.NoError(t, store.Set("tok"))
	nav := &recordingNavigator{}
	session := client.NewSession(api, store, nav, nil)
	session.Resolve(context.Background())
	require.NotNil(t, session.User())

	session.Logout()

	require.Nil(t, session.User())
	require.Equal(t, client.StateUnauthenticated, session.State())
	require.Empty(t, store.Get())
	require.Equal(t, []client.Route{client.RouteLanding}, nav.routes)

	// Logging out while already unauthenticated still navigates.
	session.Logout()
	require.Equal(t, []client.Route{client.RouteLanding, client.RouteLanding}, nav.routes)
}

func TestRegisterSuccessNavigates(t *testing.T) {
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))
	nav := &recordingNavigator{}
	session := client.NewSession(api, &client.MemTokenStore{}, nav, nil)

	err := session.Register(context.Background(), client.Profile{
		Email: "grace@example.com", Password: "hopper1906", FirstName: "Grace", LastName: "Hopper",
	})

	require.NoError(t, err)
	require.Equal(t, []client.Route{client.RouteRegistered}, nav.routes)
	require.Nil(t, session.User())
}

func TestRegisterFailureReturnsMessage(t *testing.T) {
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"taken"}`))
	}))
	nav := &recordingNavigator{}
	session := client.NewSession(api, &client.MemTokenStore{}, nav, nil)

	err := session.Register(context.Background(), client.Profile{Email: "grace@example.com"})

	require.EqualError(t, err, "taken")
	require.Empty(t, nav.routes)
}

func TestRegisterNonJSONFailureIsGeneric(t *testing.T) {
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	nav := &recordingNavigator{}
	session := client.NewSession(api, &client.MemTokenStore{}, nav, nil)

	err := session.Register(context.Background(), client.Profile{Email: "grace@example.com"})

	require.EqualError(t, err, "something went wrong, please try again")
	require.Empty(t, nav.routes)
}
