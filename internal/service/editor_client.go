package service

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docbridge/internal/config"
)

const (
	editorConnectTimeout = 10 * time.Second
	editorRequestTimeout = 30 * time.Second
)

// NewEditorHTTPClient builds the outbound client for editor requests
// (edited-file downloads, conversion). Connect and overall timeouts are
// bounded so a stalled editor surfaces as an error instead of a hung request.
func NewEditorHTTPClient(cfg config.EditorConfig) *http.Client {
	dialer := &net.Dialer{Timeout: editorConnectTimeout}

	transport := &http.Transport{
		DialContext: dialer.DialContext,
	}
	if cfg.InsecureSkipVerify {
		// Internal-network override for self-signed editor certificates.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
		Timeout:   editorRequestTimeout,
	}
}
