package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "procurement", cfg.JWTIssuer)
	assert.EqualValues(t, 10, cfg.DatabaseMaxConns)
	assert.True(t, cfg.AuditEnabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", " Postgres ")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/procurement")
	t.Setenv("DATABASE_MAX_CONNS", "20")
	t.Setenv("AUDIT_ENABLED", "false")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.EqualValues(t, 20, cfg.DatabaseMaxConns)
	assert.False(t, cfg.AuditEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "memory", cfg: Config{Backend: BackendMemory}},
		{
			name:    "postgres without url",
			cfg:     Config{Backend: BackendPostgres},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "postgres pool bounds",
			cfg:     Config{Backend: BackendPostgres, DatabaseURL: "postgres://x", DatabaseMinConns: 5, DatabaseMaxConns: 2},
			wantErr: "DATABASE_MIN_CONNS",
		},
		{
			name:    "firestore without project",
			cfg:     Config{Backend: BackendFirestore},
			wantErr: "FIRESTORE_PROJECT_ID",
		},
		{
			name:    "unknown backend",
			cfg:     Config{Backend: "mongo"},
			wantErr: "unknown STORE_BACKEND",
		},
		{
			name:    "production needs secret",
			cfg:     Config{Backend: BackendMemory, Env: "production"},
			wantErr: "JWT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
