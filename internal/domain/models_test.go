package domain

import (
	"testing"
	"time"
)

func TestCredentialRecord_Usable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record *CredentialRecord
		want   bool
	}{
		{
			name:   "nil record",
			record: nil,
			want:   false,
		},
		{
			name:   "not yet authorized",
			record: &CredentialRecord{Authorized: false, ExpiresAt: now.Add(time.Hour)},
			want:   false,
		},
		{
			name:   "authorized and live",
			record: &CredentialRecord{Authorized: true, ExpiresAt: now.Add(time.Hour)},
			want:   true,
		},
		{
			name:   "expires exactly now",
			record: &CredentialRecord{Authorized: true, ExpiresAt: now},
			want:   false,
		},
		{
			name:   "expired",
			record: &CredentialRecord{Authorized: true, ExpiresAt: now.Add(-time.Second)},
			want:   false,
		},
		{
			name:   "expired and unauthorized",
			record: &CredentialRecord{Authorized: false, ExpiresAt: now.Add(-time.Hour)},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Usable(now); got != tt.want {
				t.Errorf("Usable = %v, want %v", got, tt.want)
			}
		})
	}
}
