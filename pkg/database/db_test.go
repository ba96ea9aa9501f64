package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithSessionOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "no settings",
			cfg:  Config{DSN: "postgres://u@h/db"},
			want: "postgres://u@h/db",
		},
		{
			name: "time zone only",
			cfg:  Config{DSN: "postgres://u@h/db", TimeZone: "UTC"},
			want: "postgres://u@h/db?options=-c%20TimeZone=UTC",
		},
		{
			name: "both with existing query",
			cfg:  Config{DSN: "postgres://u@h/db?sslmode=disable", TimeZone: "UTC", ClientEncoding: "UTF8"},
			want: "postgres://u@h/db?sslmode=disable&options=-c%20TimeZone=UTC%20-c%20client_encoding=UTF8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withSessionOptions(tt.cfg))
		})
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_MAX_CONNS", "")
	cfg := ConfigFromEnv()
	assert.Contains(t, cfg.DSN, "localhost:5432")
	assert.Equal(t, 10, cfg.MaxConns)
}
