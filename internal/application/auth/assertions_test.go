package auth

import (
	"testing"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func requireAudited(t *testing.T, audits *[]auditEntry, action string) auditEntry {
	t.Helper()
	for _, a := range *audits {
		if a.action == action {
			return a
		}
	}
	t.Fatalf("expected audit action=%q, got %v", action, *audits)
	return auditEntry{}
}
