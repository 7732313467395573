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

// Package version exposes the library version and the mBaaS API revision
// it targets.
package version

const (
	// Version is the current version of ncmb-go
	Version = "1.0.0-dev"

	// APIVersion is the REST API revision used in every request path
	APIVersion = "2013-09-01"

	// SDKName prefixes the value of the X-NCMB-SDK-Version header
	SDKName = "go"
)

// Info contains detailed version information
type Info struct {
	Version    string
	APIVersion string
	SDKHeader  string
}

// SDKHeaderValue returns the value sent in the X-NCMB-SDK-Version header.
func SDKHeaderValue() string {
	return SDKName + "-" + Version
}

// Get returns detailed version information
func Get() Info {
	return Info{
		Version:    Version,
		APIVersion: APIVersion,
		SDKHeader:  SDKHeaderValue(),
	}
}
