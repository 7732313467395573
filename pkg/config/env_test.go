// Copyright (C) 2025 SAGE-X Project
//
// This file is part of ncmb-go.
//
// ncmb-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ncmb-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ncmb-go.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv(EnvApplicationKey, "env-app")
	t.Setenv(EnvClientKey, "env-client")
	t.Setenv(EnvResponseValidation, "true")

	s, err := SettingsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-app", s.ApplicationKey)
	assert.Equal(t, "env-client", s.ClientKey)
	assert.True(t, s.ResponseValidation)
}

func TestSettingsFromEnv_DotenvOverrides(t *testing.T) {
	t.Setenv(EnvApplicationKey, "env-app")
	t.Setenv(EnvClientKey, "env-client")

	path := filepath.Join(t.TempDir(), ".env")
	content := "NCMB_CLIENT_KEY=file-client\nNCMB_BASE_URL=http://localhost:1234\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := FromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "env-app", cfg.ApplicationKey())
	assert.Equal(t, "file-client", cfg.ClientKey())
	assert.Equal(t, "http://localhost:1234", cfg.BaseURL().String())

	// process environment untouched
	assert.Equal(t, "env-client", os.Getenv(EnvClientKey))
}

func TestSettingsFromEnv_Errors(t *testing.T) {
	_, err := SettingsFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv(EnvResponseValidation, "sometimes")
	_, err = SettingsFromEnv()
	assert.Error(t, err)
}
