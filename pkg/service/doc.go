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

// Package service hands out the API services bound to a Configuration
// Context.
//
// Get returns the same *client.Service for a given (Kind, Context) pair
// however often it is called, creating it on first use. Services are stored
// on the Context itself, so they live exactly as long as the Context does.
// Cache offers the same lookup detached from any Context.
//
//	files, err := service.Files(cfg)
//	if err != nil {
//	    return err
//	}
//	result, err := files.Save(ctx, "Sample.txt", data, []byte(`{"*":{"read":true}}`))
package service
