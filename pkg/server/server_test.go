package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mchmarny/copilot/pkg/metric"
)

func TestSimpleHealth(t *testing.T) {
	srv := New(WithSimpleHealth())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("GET %s = %d %q", HealthPath, rec.Code, rec.Body.String())
	}
}

func TestWithHandler(t *testing.T) {
	srv := New(WithHandler("/hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hi"))
	})))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))

	if rec.Body.String() != "hi" {
		t.Fatalf("GET /hello = %q", rec.Body.String())
	}
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metric.NewEntriesCounter(reg).Increment("created")

	srv := New(WithRegistry(reg), WithPrometheusMetrics())
	if srv.Registry() != reg {
		t.Fatal("Registry() should return the given registry")
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d", MetricsPath, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `navbar_entries_total{action="created"} 1`) {
		t.Fatalf("metrics output missing counter:\n%s", rec.Body.String())
	}
}

func TestServeShutdown(t *testing.T) {
	srv := New(WithPort(0), WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !srv.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if srv.IsRunning() {
		t.Fatal("server still reports running")
	}
}

func TestTLSMissingCertificate(t *testing.T) {
	srv := New(WithPort(0), WithTLS(TLSConfig{CertFile: "missing.pem", KeyFile: "missing.key"}))
	if err := srv.Serve(context.Background()); err == nil {
		t.Fatal("Serve() should fail without a certificate")
	}
}
