package server

import (
	"context"
	"testing"

	"golang.org/x/oauth2"
)

type noTokenProvider struct{}

func (noTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	return nil, context.Canceled
}

func (noTokenProvider) HasTokenForAccount(_ string) bool { return false }

func TestNewServerContextRequiresProvider(t *testing.T) {
	if _, err := NewServerContextWithProvider(context.Background(), false, nil); err == nil {
		t.Error("expected error for nil provider")
	}
}

func TestClientsNilWithoutToken(t *testing.T) {
	sc, err := NewServerContextWithProvider(context.Background(), false, noTokenProvider{})
	if err != nil {
		t.Fatalf("NewServerContextWithProvider() error = %v", err)
	}

	if sc.MailClientForAccount("work") != nil {
		t.Error("expected nil mail client without token")
	}
	if sc.CalendarClientForAccount("work") != nil {
		t.Error("expected nil calendar client without token")
	}
	if sc.ContactsClientForAccount("work") != nil {
		t.Error("expected nil contacts client without token")
	}
	if sc.FilesClientForAccount("work") != nil {
		t.Error("expected nil files client without token")
	}
}

func TestReadOnlyFlag(t *testing.T) {
	sc, err := NewServerContextWithProvider(context.Background(), true, noTokenProvider{})
	if err != nil {
		t.Fatalf("NewServerContextWithProvider() error = %v", err)
	}
	if !sc.ReadOnly() {
		t.Error("expected read-only server context")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	sc, err := NewServerContextWithProvider(context.Background(), false, noTokenProvider{})
	if err != nil {
		t.Fatalf("NewServerContextWithProvider() error = %v", err)
	}

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("expected shutdown state")
	}
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("expected server context to be cancelled")
	}
}
