package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseRoleNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"single", "PACIENTE", []string{"PACIENTE"}},
		{"trims and skips blanks", " MEDICO , ,PACIENTE ", []string{"MEDICO", "PACIENTE"}},
		{"drops duplicates", "MEDICO,MEDICO,PACIENTE", []string{"MEDICO", "PACIENTE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoleNames(tt.input))
		})
	}
}

func TestSeedRoleNamesIncludesDefault(t *testing.T) {
	cfg := RoleConfig{DefaultRole: "PACIENTE", SeedRoles: "ADMINISTRADOR,MEDICO"}
	assert.Equal(t, []string{"ADMINISTRADOR", "MEDICO", "PACIENTE"}, cfg.SeedRoleNames())

	cfg.SeedRoles = "PACIENTE,MEDICO"
	assert.Equal(t, []string{"PACIENTE", "MEDICO"}, cfg.SeedRoleNames())
}

func TestPasswordCost(t *testing.T) {
	tests := []struct {
		cost int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{1, bcrypt.MinCost},
		{12, 12},
		{99, bcrypt.MaxCost},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PasswordConfig{BcryptCost: tt.cost}.Cost(), "cost %d", tt.cost)
	}
}

func TestValidate(t *testing.T) {
	valid := ServiceConfig{Port: 8080, PersistenceType: PersistenceMemory, Prefix: DefaultPrefixes()}
	require.NoError(t, Validate(ValidateService(valid), ValidateRoles(RoleConfig{DefaultRole: "PACIENTE"})))

	invalid := valid
	invalid.Port = 0
	invalid.PersistenceType = "file"
	invalid.Prefix.Labs = "api/labs"

	err := Validate(
		ValidateService(invalid),
		ValidateRoles(RoleConfig{}),
		ValidatePassword(PasswordConfig{MinLength: 0}),
	)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"APP_PORT", "PERSISTENCE_TYPE", "PREFIX_LABS", "DEFAULT_ROLE", "PASSWORD_MIN_LENGTH"}, fields)
}

func TestLoadReadsEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEFAULT_ROLE=MEDICO\nAPP_PORT=9090\n"), 0o600))
	t.Setenv("FALLBACK_ON_EMPTY_ROLE", "true")
	t.Cleanup(func() {
		os.Unsetenv("DEFAULT_ROLE")
		os.Unsetenv("APP_PORT")
	})

	var cfg UsersConfig
	require.NoError(t, Load(&cfg, envFile))

	assert.Equal(t, "MEDICO", cfg.Roles.DefaultRole)
	assert.True(t, cfg.Roles.FallbackOnEmptyRole)
	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, "/api/users", cfg.Service.Prefix.Users)
	assert.Equal(t, PersistencePostgres, cfg.Service.PersistenceType)
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	var cfg LabsConfig
	require.NoError(t, Load(&cfg, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "lab_db", cfg.Database.Database)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
}
