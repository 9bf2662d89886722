package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/graphdesk/graphdesk/internal/auth"
	"github.com/graphdesk/graphdesk/internal/calendar"
	"github.com/graphdesk/graphdesk/internal/contacts"
	"github.com/graphdesk/graphdesk/internal/files"
	"github.com/graphdesk/graphdesk/internal/instrumentation"
	"github.com/graphdesk/graphdesk/internal/mail"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx             context.Context
	cancel          context.CancelFunc
	tokenProvider   auth.TokenProvider
	mailClients     map[string]*mail.Client     // Maps account name to mail client
	calendarClients map[string]*calendar.Client // Maps account name to calendar client
	contactsClients map[string]*contacts.Client // Maps account name to contacts client
	filesClients    map[string]*files.Client    // Maps account name to files client
	readOnly        bool
	metrics         *instrumentation.Metrics
	auditLogger     *instrumentation.AuditLogger
	mu              sync.RWMutex
	shutdown        bool
}

// NewServerContext creates a new server context using the default
// file-based token provider
func NewServerContext(ctx context.Context, readOnly bool) (*ServerContext, error) {
	return NewServerContextWithProvider(ctx, readOnly, auth.NewFileTokenProvider())
}

// NewServerContextWithProvider creates a new server context with an explicit
// token provider. Clients are lazily initialized when first needed.
func NewServerContextWithProvider(ctx context.Context, readOnly bool, provider auth.TokenProvider) (*ServerContext, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		tokenProvider:   provider,
		mailClients:     make(map[string]*mail.Client),
		calendarClients: make(map[string]*calendar.Client),
		contactsClients: make(map[string]*contacts.Client),
		filesClients:    make(map[string]*files.Client),
		readOnly:        readOnly,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// TokenProvider returns the token provider the server was created with
func (sc *ServerContext) TokenProvider() auth.TokenProvider {
	return sc.tokenProvider
}

// ReadOnly returns whether the server is running in read-only mode
func (sc *ServerContext) ReadOnly() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.readOnly
}

// MailClientForAccount returns the mail client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) MailClientForAccount(account string) *mail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.mailClients[account]; ok {
		return client
	}

	if !sc.tokenProvider.HasTokenForAccount(account) {
		return nil
	}

	client, err := mail.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		fmt.Printf("Warning: failed to create mail client for account %s: %v\n", account, err)
		return nil
	}

	sc.mailClients[account] = client
	return client
}

// MailClient returns the mail client for the default account
func (sc *ServerContext) MailClient() *mail.Client {
	return sc.MailClientForAccount("default")
}

// SetMailClientForAccount sets the mail client for a specific account
func (sc *ServerContext) SetMailClientForAccount(account string, client *mail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.mailClients[account] = client
}

// CalendarClientForAccount returns the calendar client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.calendarClients[account]; ok {
		return client
	}

	if !sc.tokenProvider.HasTokenForAccount(account) {
		return nil
	}

	client, err := calendar.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		fmt.Printf("Warning: failed to create calendar client for account %s: %v\n", account, err)
		return nil
	}

	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the calendar client for the default account
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount("default")
}

// SetCalendarClientForAccount sets the calendar client for a specific account
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
}

// ContactsClientForAccount returns the contacts client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) ContactsClientForAccount(account string) *contacts.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.contactsClients[account]; ok {
		return client
	}

	if !sc.tokenProvider.HasTokenForAccount(account) {
		return nil
	}

	client, err := contacts.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		fmt.Printf("Warning: failed to create contacts client for account %s: %v\n", account, err)
		return nil
	}

	sc.contactsClients[account] = client
	return client
}

// ContactsClient returns the contacts client for the default account
func (sc *ServerContext) ContactsClient() *contacts.Client {
	return sc.ContactsClientForAccount("default")
}

// SetContactsClientForAccount sets the contacts client for a specific account
func (sc *ServerContext) SetContactsClientForAccount(account string, client *contacts.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.contactsClients[account] = client
}

// FilesClientForAccount returns the files client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) FilesClientForAccount(account string) *files.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.filesClients[account]; ok {
		return client
	}

	if !sc.tokenProvider.HasTokenForAccount(account) {
		return nil
	}

	client, err := files.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		fmt.Printf("Warning: failed to create files client for account %s: %v\n", account, err)
		return nil
	}

	sc.filesClients[account] = client
	return client
}

// FilesClient returns the files client for the default account
func (sc *ServerContext) FilesClient() *files.Client {
	return sc.FilesClientForAccount("default")
}

// SetFilesClientForAccount sets the files client for a specific account
func (sc *ServerContext) SetFilesClientForAccount(account string, client *files.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.filesClients[account] = client
}

// Metrics returns the metrics recorder, or nil if instrumentation is not
// configured
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil if audit logging is not
// configured
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger
func (sc *ServerContext) SetAuditLogger(l *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = l
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
