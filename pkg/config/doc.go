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

// Package config holds the Configuration Context shared by every service
// built against one mBaaS application.
//
// A Context carries the application key, client key, base URL and the
// current session token. It is passed by pointer: every service created from
// it observes session changes made through any other holder.
//
// # Creating a Context
//
//	cfg, err := config.New(appKey, clientKey)
//	if err != nil {
//	    return err
//	}
//	cfg.SetResponseValidation(true)
//
// # Persistence
//
// Settings are loaded and saved explicitly at the application boundary:
//
//	s, err := config.LoadSettings("ncmb.yaml")
//	cfg, err := config.FromSettings(s)
//	...
//	err = config.SaveSettings("ncmb.yaml", cfg.Settings())
//
// Keys can also come from the environment or dotenv files:
//
//	cfg, err := config.FromEnv(".env")
//
// # Attachments
//
// LoadOrStore keeps per-context values (such as the service cache) whose
// lifetime is bounded by the Context itself.
package config
