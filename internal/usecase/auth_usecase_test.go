package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/state"
)

func newAuthFixture(gateway *fakeGateway) (*AuthUseCase, *memVault, domain.StateStore, *fakePool) {
	vault := newMemVault()
	states := state.NewMemoryStore()
	pool := &fakePool{}
	uc := NewAuthUseCase(gateway, vault, states, pool, zerolog.Nop())
	return uc, vault, states, pool
}

func TestAuth_PhoneToCode(t *testing.T) {
	gw := &fakeGateway{sendCodeSession: []byte("s1"), sendCodeHash: "hash1"}
	uc, vault, states, _ := newAuthFixture(gw)

	uc.StartLogin(1)
	if err := uc.SubmitPhone(context.Background(), 1, "+15551234567"); err != nil {
		t.Fatalf("SubmitPhone failed: %v", err)
	}

	data := states.Get(1)
	if data.State != domain.StateAwaitingCode {
		t.Errorf("Expected awaiting code, got %q", data.State)
	}
	if data.Phone != "+15551234567" || data.CodeHash != "hash1" {
		t.Errorf("Step-local data not carried: %+v", data)
	}

	record, _ := vault.Get(context.Background(), 1)
	if record == nil || record.Authorized {
		t.Fatalf("Expected unauthorized record, got %+v", record)
	}
	if string(record.Session) != "s1" || record.CodeHash != "hash1" {
		t.Errorf("Ephemeral session not persisted: %+v", record)
	}
}

func TestAuth_PhoneFailureResets(t *testing.T) {
	gw := &fakeGateway{sendCodeErr: domain.ErrLoginFailed}
	uc, _, states, _ := newAuthFixture(gw)

	uc.StartLogin(1)
	if err := uc.SubmitPhone(context.Background(), 1, "+15551234567"); err == nil {
		t.Fatal("Expected error")
	}
	if states.Get(1).State != domain.StateNone {
		t.Error("Expected state cleared after platform failure")
	}
}

func TestAuth_CodeSuccess(t *testing.T) {
	gw := &fakeGateway{
		sendCodeSession: []byte("s1"),
		sendCodeHash:    "hash1",
		signInSession:   []byte("s2"),
	}
	uc, vault, states, _ := newAuthFixture(gw)

	uc.StartLogin(1)
	_ = uc.SubmitPhone(context.Background(), 1, "+15551234567")
	if err := uc.SubmitCode(context.Background(), 1, "12345"); err != nil {
		t.Fatalf("SubmitCode failed: %v", err)
	}

	if states.Get(1).State != domain.StateNone {
		t.Error("Expected state cleared after success")
	}
	record, _ := vault.Get(context.Background(), 1)
	if record == nil || !record.Authorized {
		t.Fatalf("Expected authorized record, got %+v", record)
	}
	if string(record.Session) != "s2" {
		t.Errorf("Expected final session persisted, got %q", record.Session)
	}
	if !uc.HasActiveSession(context.Background(), 1) {
		t.Error("Expected an active session")
	}
}

func TestAuth_InvalidCodeStays(t *testing.T) {
	gw := &fakeGateway{
		sendCodeSession: []byte("s1"),
		sendCodeHash:    "hash1",
		signInErr:       domain.ErrCodeInvalid,
	}
	uc, _, states, _ := newAuthFixture(gw)

	uc.StartLogin(1)
	_ = uc.SubmitPhone(context.Background(), 1, "+15551234567")

	err := uc.SubmitCode(context.Background(), 1, "00000")
	if !errors.Is(err, domain.ErrCodeInvalid) {
		t.Fatalf("Expected ErrCodeInvalid, got %v", err)
	}
	// Resubmission allowed
	if states.Get(1).State != domain.StateAwaitingCode {
		t.Error("Expected state to remain awaiting code")
	}
}

func TestAuth_ExpiredCodeResets(t *testing.T) {
	gw := &fakeGateway{
		sendCodeSession: []byte("s1"),
		sendCodeHash:    "hash1",
		signInErr:       domain.ErrCodeExpired,
	}
	uc, _, states, _ := newAuthFixture(gw)

	uc.StartLogin(1)
	_ = uc.SubmitPhone(context.Background(), 1, "+15551234567")

	err := uc.SubmitCode(context.Background(), 1, "12345")
	if !errors.Is(err, domain.ErrCodeExpired) {
		t.Fatalf("Expected ErrCodeExpired, got %v", err)
	}
	if states.Get(1).State != domain.StateNone {
		t.Error("Expected flow reset to start")
	}
}

func TestAuth_TwoFactorFlow(t *testing.T) {
	gw := &fakeGateway{
		sendCodeSession: []byte("s1"),
		sendCodeHash:    "hash1",
		signInSession:   []byte("s2"),
		signInErr:       domain.ErrPasswordNeeded,
		passwordSession: []byte("s3"),
	}
	uc, vault, states, _ := newAuthFixture(gw)

	uc.StartLogin(1)
	_ = uc.SubmitPhone(context.Background(), 1, "+15551234567")

	err := uc.SubmitCode(context.Background(), 1, "12345")
	if !errors.Is(err, domain.ErrPasswordNeeded) {
		t.Fatalf("Expected ErrPasswordNeeded, got %v", err)
	}
	if states.Get(1).State != domain.StateAwaitingPassword {
		t.Fatal("Expected awaiting password")
	}

	// Intermediate session persisted, still unauthorized
	record, _ := vault.Get(context.Background(), 1)
	if string(record.Session) != "s2" || record.Authorized {
		t.Errorf("Expected unauthorized intermediate session, got %+v", record)
	}

	if err := uc.SubmitPassword(context.Background(), 1, "hunter2"); err != nil {
		t.Fatalf("SubmitPassword failed: %v", err)
	}
	record, _ = vault.Get(context.Background(), 1)
	if !record.Authorized || string(record.Session) != "s3" {
		t.Errorf("Expected authorized final session, got %+v", record)
	}
	if states.Get(1).State != domain.StateNone {
		t.Error("Expected state cleared")
	}
}

func TestAuth_WrongPasswordStays(t *testing.T) {
	gw := &fakeGateway{
		sendCodeSession: []byte("s1"),
		sendCodeHash:    "hash1",
		signInSession:   []byte("s2"),
		signInErr:       domain.ErrPasswordNeeded,
		passwordErr:     domain.ErrPasswordInvalid,
	}
	uc, _, states, _ := newAuthFixture(gw)

	uc.StartLogin(1)
	_ = uc.SubmitPhone(context.Background(), 1, "+15551234567")
	_ = uc.SubmitCode(context.Background(), 1, "12345")

	err := uc.SubmitPassword(context.Background(), 1, "wrong")
	if !errors.Is(err, domain.ErrPasswordInvalid) {
		t.Fatalf("Expected ErrPasswordInvalid, got %v", err)
	}
	if states.Get(1).State != domain.StateAwaitingPassword {
		t.Error("Expected state to remain awaiting password")
	}
}

func TestAuth_NewLoginSupersedes(t *testing.T) {
	gw := &fakeGateway{sendCodeSession: []byte("s1"), sendCodeHash: "hash1"}
	uc, vault, states, _ := newAuthFixture(gw)

	uc.StartLogin(1)
	_ = uc.SubmitPhone(context.Background(), 1, "+15551111111")

	gw.sendCodeHash = "hash2"
	_ = uc.SubmitPhone(context.Background(), 1, "+15552222222")

	data := states.Get(1)
	if data.Phone != "+15552222222" || data.CodeHash != "hash2" {
		t.Errorf("Expected prior pending login overwritten, got %+v", data)
	}
	record, _ := vault.Get(context.Background(), 1)
	if record.Phone != "+15552222222" {
		t.Errorf("Expected vault record replaced, got %+v", record)
	}
}

func TestAuth_Logout(t *testing.T) {
	gw := &fakeGateway{
		sendCodeSession: []byte("s1"),
		sendCodeHash:    "hash1",
		signInSession:   []byte("s2"),
	}
	uc, vault, states, pool := newAuthFixture(gw)

	uc.StartLogin(1)
	_ = uc.SubmitPhone(context.Background(), 1, "+15551234567")
	_ = uc.SubmitCode(context.Background(), 1, "12345")

	uc.Logout(context.Background(), 1)

	if record, _ := vault.Get(context.Background(), 1); record != nil {
		t.Error("Expected vault record deleted")
	}
	if states.Get(1).State != domain.StateNone {
		t.Error("Expected state cleared")
	}
	if len(pool.evicted) != 1 || pool.evicted[0] != 1 {
		t.Errorf("Expected pooled connection evicted, got %v", pool.evicted)
	}
	if len(gw.loggedOut) != 1 {
		t.Errorf("Expected one remote logout attempt, got %d", len(gw.loggedOut))
	}
}
