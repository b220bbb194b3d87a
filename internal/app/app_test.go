package app

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/internal/config"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AppName: "dashboard-test",
		API:     config.APIConfig{BaseURL: "http://backend.test", LoginPath: "/api/auth/login/", Timeout: time.Second, AuthScheme: "Token"},
		Token: config.TokenConfig{
			Store:    store,
			Key:      "token",
			BoltPath: filepath.Join(dir, "session.db"),
			FilePath: filepath.Join(dir, "token"),
			Timeout:  time.Second,
		},
		Redis:   config.RedisConfig{Prefix: "dashboard:"},
		Shell:   config.ShellConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		Context: config.ContextConfig{RequestTimeout: time.Second, ShutdownTimeout: time.Second},
	}
}

func fakeBackend(t *testing.T) fasthttp.DialFunc {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("application/json")
		switch string(ctx.Path()) {
		case "/api/auth/login/":
			if !strings.Contains(string(ctx.PostBody()), `"password":"secret"`) {
				ctx.SetStatusCode(fasthttp.StatusBadRequest)
				ctx.SetBodyString(`{"non_field_errors":["Unable to log in with provided credentials."]}`)
				return
			}
			ctx.SetBodyString(`{"key":"abc123"}`)
		case "/api/classes/":
			if string(ctx.Request.Header.Peek("Authorization")) != "Token abc123" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}
			ctx.SetBodyString(`[{"id":42,"name":"Year 9 Biology"}]`)
		case "/api/dashboard-stats/":
			ctx.SetBodyString(`{"total_classes":1}`)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	}}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })
	return func(string) (net.Conn, error) { return ln.Dial() }
}

func TestOpenTokenRepositoryBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, store := range []string{config.StoreBolt, config.StoreFile, config.StoreRedis, config.StoreMemory} {
		t.Run(store, func(t *testing.T) {
			cfg := testConfig(t, store)
			cfg.Redis.URL = "redis://" + mr.Addr()

			repo, err := OpenTokenRepository(context.Background(), cfg)
			require.NoError(t, err)
			defer repo.Close()

			ctx := context.Background()
			require.NoError(t, repo.Save(ctx, "abc123"))
			token, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "abc123", token)
			require.NoError(t, repo.Delete(ctx))
			require.NoError(t, repo.Delete(ctx))
		})
	}

	_, err := OpenTokenRepository(context.Background(), testConfig(t, "sqlite"))
	assert.Error(t, err)
}

func TestSessionSurvivesRestart(t *testing.T) {
	cfg := testConfig(t, config.StoreBolt)
	dial := fakeBackend(t)

	first, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	first.API.WithDialer(dial)
	assert.False(t, first.Session.IsAuthenticated())
	require.NoError(t, first.Session.Login(context.Background(), credentials("secret")))
	require.NoError(t, first.Close(context.Background()))

	second, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer second.Close(context.Background())
	second.API.WithDialer(dial)

	assert.True(t, second.Session.IsAuthenticated())
	classes, err := second.API.Classes(context.Background())
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestServeGuardsViews(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close(context.Background())
	a.API.WithDialer(fakeBackend(t))

	shell := fasthttputil.NewInmemoryListener()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.ServeListener(ctx, shell) }()

	client := &fasthttp.Client{Dial: func(string) (net.Conn, error) { return shell.Dial() }}
	do := func(method, path, body string) *fasthttp.Response {
		req := fasthttp.AcquireRequest()
		defer fasthttp.ReleaseRequest(req)
		req.SetRequestURI("http://shell.test" + path)
		req.Header.SetMethod(method)
		if body != "" {
			req.Header.SetContentType("application/x-www-form-urlencoded")
			req.SetBodyString(body)
		}
		resp := &fasthttp.Response{}
		require.NoError(t, client.DoTimeout(req, resp, 2*time.Second))
		return resp
	}

	resp := do(fasthttp.MethodGet, "/classes/42", "")
	assert.Equal(t, fasthttp.StatusFound, resp.StatusCode())
	assert.True(t, strings.HasSuffix(string(resp.Header.Peek("Location")), "/login"))

	resp = do(fasthttp.MethodPost, "/login", "username=jsmith&password=wrong")
	assert.Equal(t, fasthttp.StatusUnauthorized, resp.StatusCode())

	resp = do(fasthttp.MethodPost, "/login", "username=jsmith&password=secret")
	assert.Equal(t, fasthttp.StatusSeeOther, resp.StatusCode())

	resp = do(fasthttp.MethodGet, "/", "")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "Year 9 Biology")

	resp = do(fasthttp.MethodGet, "/login", "")
	assert.Equal(t, fasthttp.StatusFound, resp.StatusCode())

	resp = do(fasthttp.MethodGet, "/api/session", "")
	assert.Contains(t, string(resp.Body()), `"authenticated":true`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("shell did not stop")
	}
}

func credentials(secret string) domain.Credentials {
	return domain.Credentials{Identifier: "jsmith", Secret: secret}
}
