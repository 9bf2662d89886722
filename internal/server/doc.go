// Package server provides the MCP server context, health checks, and the
// dedicated metrics server for the graphdesk application.
//
// # Key Components
//
// ServerContext manages Graph API clients with lazy initialization and
// caching. It supports multiple accounts and can use different token
// providers; the default FileTokenProvider reads tokens from disk for the
// STDIO transport.
//
// HealthChecker serves /healthz and /readyz endpoints for Kubernetes
// probes when the server runs with an HTTP transport.
//
// MetricsServer serves Prometheus metrics on a dedicated port. This
// isolates metrics from the main application traffic, preventing
// unauthorized access to operational metrics.
package server
