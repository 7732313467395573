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

package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
)

// DefaultMIMEType is used when the file extension is unknown or absent.
const DefaultMIMEType = "application/octet-stream"

// Multipart part names
const (
	PartFile = "file"
	PartACL  = "acl"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// MIMETypeByFilename returns the MIME type for the file extension, falling
// back to DefaultMIMEType.
func MIMETypeByFilename(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return DefaultMIMEType
	}
	t := mime.TypeByExtension(strings.ToLower(ext))
	if t == "" {
		return DefaultMIMEType
	}
	return t
}

// Boundary derives the multipart boundary from a timestamp.
func Boundary(t time.Time) string {
	return fmt.Sprintf("NCMBBoundary%d", t.UnixNano())
}

// hasACL reports whether acl carries content worth sending. Empty, null and
// {} are placeholders; anything other than a JSON object is rejected.
func hasACL(acl []byte) (bool, error) {
	trimmed := bytes.TrimSpace(acl)
	if len(trimmed) == 0 {
		return false, nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return false, apierror.Wrap(apierror.KindEncoding, err, "acl is not valid JSON")
	}
	parsed := gjson.ParseBytes(compact.Bytes())
	switch {
	case parsed.Type == gjson.Null:
		return false, nil
	case !parsed.IsObject():
		return false, apierror.New(apierror.KindEncoding, "acl must be a JSON object")
	}
	return compact.String() != "{}", nil
}

func encodeMultipart(f *File, now time.Time) ([]byte, string, error) {
	if err := ValidateFileName(f.Name); err != nil {
		return nil, "", err
	}
	withACL, err := hasACL(f.ACL)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(Boundary(now)); err != nil {
		return nil, "", apierror.Wrap(apierror.KindEncoding, err, "invalid multipart boundary")
	}

	fileHeader := make(textproto.MIMEHeader)
	fileHeader.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, PartFile, quoteEscaper.Replace(f.Name)))
	fileHeader.Set("Content-Type", MIMETypeByFilename(f.Name))
	part, err := w.CreatePart(fileHeader)
	if err != nil {
		return nil, "", apierror.Wrap(apierror.KindEncoding, err, "failed to create file part")
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", apierror.Wrap(apierror.KindEncoding, err, "failed to write file part")
	}

	if withACL {
		aclHeader := make(textproto.MIMEHeader)
		aclHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, PartACL))
		aclHeader.Set("Content-Type", ContentTypeJSON)
		part, err := w.CreatePart(aclHeader)
		if err != nil {
			return nil, "", apierror.Wrap(apierror.KindEncoding, err, "failed to create acl part")
		}
		if _, err := part.Write(bytes.TrimSpace(f.ACL)); err != nil {
			return nil, "", apierror.Wrap(apierror.KindEncoding, err, "failed to write acl part")
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", apierror.Wrap(apierror.KindEncoding, err, "failed to finish multipart body")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
