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
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names read by FromEnv.
const (
	EnvApplicationKey     = "NCMB_APPLICATION_KEY"
	EnvClientKey          = "NCMB_CLIENT_KEY"
	EnvBaseURL            = "NCMB_BASE_URL"
	EnvAPIVersion         = "NCMB_API_VERSION"
	EnvResponseValidation = "NCMB_RESPONSE_VALIDATION"
)

// SettingsFromEnv collects Settings from the process environment, overlaid
// with the given dotenv files (later files win). The process environment is
// not modified.
func SettingsFromEnv(files ...string) (*Settings, error) {
	values := map[string]string{}
	for _, key := range []string{EnvApplicationKey, EnvClientKey, EnvBaseURL, EnvAPIVersion, EnvResponseValidation} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}

	if len(files) > 0 {
		fileValues, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("failed to read env files: %w", err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}

	s := &Settings{
		ApplicationKey: values[EnvApplicationKey],
		ClientKey:      values[EnvClientKey],
		BaseURL:        values[EnvBaseURL],
		APIVersion:     values[EnvAPIVersion],
	}
	if raw := values[EnvResponseValidation]; raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvResponseValidation, raw, err)
		}
		s.ResponseValidation = enabled
	}
	return s, nil
}

// FromEnv builds a Context from SettingsFromEnv.
func FromEnv(files ...string) (*Context, error) {
	s, err := SettingsFromEnv(files...)
	if err != nil {
		return nil, err
	}
	return FromSettings(s)
}
