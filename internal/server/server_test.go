package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/handler"
	myHTTP "github.com/MKhiriev/go-secret-vault/internal/handler/http"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedVersion string

func (v fixedVersion) GetAppVersion(context.Context) string { return string(v) }

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNewServer_NoHandlers(t *testing.T) {
	s, err := NewServer(nil, config.Server{HTTPAddress: ":8080"}, logger.Nop())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, errNoServersAreCreated)

	s, err = NewServer(&handler.Handlers{}, config.Server{HTTPAddress: ":8080"}, logger.Nop())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestServer_ServesUntilContextDone(t *testing.T) {
	cfg := config.StructuredConfig{
		Server: config.Server{HTTPAddress: freeAddress(t), ShutdownTimeout: time.Second},
	}
	services := &service.Services{AppInfoService: fixedVersion("9.9.9")}
	handlers := &handler.Handlers{HTTP: myHTTP.NewHandler(services, cfg, logger.Nop())}

	s, err := NewServer(handlers, cfg.Server, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.(*server).run(ctx) }()

	url := "http://" + cfg.Server.HTTPAddress + "/api/version"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: l.Addr().String()}}
	handlers := &handler.Handlers{HTTP: myHTTP.NewHandler(&service.Services{}, cfg, logger.Nop())}

	s, err := NewServer(handlers, cfg.Server, logger.Nop())
	require.NoError(t, err)

	err = s.(*server).run(context.Background())
	assert.Error(t, err)
}
