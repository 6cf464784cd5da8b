package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/ridloal/blood-portal/internal/platform/config"
	"github.com/ridloal/blood-portal/internal/platform/logger"
)

func newSingleHostReverseProxy(targetHost string) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(targetHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target URL '%s': %w", targetHost, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	// Flush tiap write supaya frame SSE langsung sampai ke browser
	proxy.FlushInterval = -1

	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error(fmt.Sprintf("Gateway: proxy error for %s %s to %s", req.Method, req.URL.Path, targetURL), err, nil)
		http.Error(rw, "Service unavailable or proxy error", http.StatusBadGateway)
	}
	return proxy, nil
}

func main() {
	config.LoadDotEnv()
	logger.Setup(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "json"))
	cfg := config.LoadGatewayConfig()
	logger.Info("Starting API Gateway on port %s", cfg.ListenPort)

	mux := http.NewServeMux()

	// Portal endpoints go to the portal service; everything else is the blood API itself.
	serviceMappings := map[string]string{
		"/api/v1/portal/": cfg.PortalServiceURL, // Trailing slash penting untuk ServeMux matching
		"/":               cfg.BloodAPIURL,
	}

	for pathPrefix, targetHost := range serviceMappings {
		proxy, err := newSingleHostReverseProxy(targetHost)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create reverse proxy for target %s (prefix %s)", targetHost, pathPrefix), err, nil)
			continue
		}

		// Path diteruskan apa adanya, tidak perlu strip prefix
		mux.Handle(pathPrefix, proxy)
		logger.Info("Routing %s to %s", pathPrefix, targetHost)
	}

	server := &http.Server{
		Addr:    ":" + cfg.ListenPort,
		Handler: mux,
	}

	logger.Info("API Gateway successfully configured and listening on :%s", cfg.ListenPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API Gateway failed to start or crashed", err, nil)
	}
}
