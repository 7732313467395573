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
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings is the persisted form of a Context.
type Settings struct {
	ApplicationKey     string `yaml:"application_key"`
	ClientKey          string `yaml:"client_key"`
	BaseURL            string `yaml:"base_url,omitempty"`
	APIVersion         string `yaml:"api_version,omitempty"`
	SessionToken       string `yaml:"session_token,omitempty"`
	ResponseValidation bool   `yaml:"response_validation,omitempty"`
}

// LoadSettings reads Settings from a YAML file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return &s, nil
}

// SaveSettings writes s to path as YAML, readable by the owner only.
func SaveSettings(path string, s *Settings) error {
	if s == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create settings dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

// FromSettings builds a Context from persisted settings. Extra options are
// applied after the persisted values.
func FromSettings(s *Settings, opts ...Option) (*Context, error) {
	if s == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	all := make([]Option, 0, len(opts)+4)
	if s.BaseURL != "" {
		all = append(all, WithBaseURL(s.BaseURL))
	}
	if s.APIVersion != "" {
		all = append(all, WithAPIVersion(s.APIVersion))
	}
	all = append(all,
		WithSessionToken(s.SessionToken),
		WithResponseValidation(s.ResponseValidation),
	)
	all = append(all, opts...)

	return New(s.ApplicationKey, s.ClientKey, all...)
}

// Settings returns a snapshot of the Context suitable for SaveSettings.
func (c *Context) Settings() *Settings {
	return &Settings{
		ApplicationKey:     c.applicationKey,
		ClientKey:          c.clientKey,
		BaseURL:            c.baseURL.String(),
		APIVersion:         c.apiVersion,
		SessionToken:       c.SessionToken(),
		ResponseValidation: c.ResponseValidation(),
	}
}
