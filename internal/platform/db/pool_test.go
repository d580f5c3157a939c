package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsMissingDatabase(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("connection refused"), false},
		{"missing database", &pgconn.PgError{Code: "3D000"}, true},
		{"wrapped missing database", fmt.Errorf("ping: %w", &pgconn.PgError{Code: "3D000"}), true},
		{"other sqlstate", &pgconn.PgError{Code: "28P01"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMissingDatabase(tt.err); got != tt.want {
				t.Errorf("isMissingDatabase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), "://not-a-url", PoolOptions{})
	if err == nil {
		t.Fatal("expected error for invalid database url")
	}
}
