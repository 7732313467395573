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

// Package request builds Signed Requests: immutable, fully signed
// descriptions of one API call.
//
// Building never performs I/O:
//
//	req, err := request.Build(cfg, request.Spec{
//	    Method: http.MethodPost,
//	    Path:   "files/Sample.txt",
//	    File: &request.File{
//	        Name: "Sample.txt",
//	        Data: []byte("hello"),
//	        ACL:  []byte(`{"*":{"read":true}}`),
//	    },
//	})
//
// JSON bodies are sent as application/json. File payloads are sent as
// multipart/form-data with a "file" part and, when the ACL is not empty, an
// "acl" part.
//
// A Request is used once; HTTPRequest materializes a fresh *http.Request for
// the transport.
package request
