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

package service

import (
	"context"
	"net/http"

	"github.com/sage-x-project/ncmb-go/pkg/client"
	"github.com/sage-x-project/ncmb-go/pkg/config"
	"github.com/sage-x-project/ncmb-go/pkg/dispatch"
	"github.com/sage-x-project/ncmb-go/pkg/request"
	"github.com/sage-x-project/ncmb-go/pkg/transport"
)

const filesPath = "files/"

// Callbacks of the file service. Exactly one of the value and err is set.
type (
	SaveCallback   func(result map[string]any, err error)
	FetchCallback  func(data []byte, err error)
	DeleteCallback func(err error)
)

// FileService stores files in the backend file store.
type FileService struct {
	svc *client.Service
}

// Files returns the file service bound to cfg.
func Files(cfg *config.Context) (*FileService, error) {
	svc, err := Get(KindFile, cfg)
	if err != nil {
		return nil, err
	}
	return &FileService{svc: svc}, nil
}

// NewFileService wraps an existing service.
func NewFileService(svc *client.Service) *FileService {
	return &FileService{svc: svc}
}

// Service returns the underlying service.
func (f *FileService) Service() *client.Service { return f.svc }

// Save uploads data under name. acl is optional JSON metadata.
func (f *FileService) Save(ctx context.Context, name string, data, acl []byte) (map[string]any, error) {
	resp, err := f.svc.Do(ctx, saveSpec(name, data, acl))
	if err != nil {
		return nil, err
	}
	return jsonResult(resp), nil
}

// SaveAsync is the asynchronous form of Save.
func (f *FileService) SaveAsync(ctx context.Context, name string, data, acl []byte, d dispatch.Dispatcher, cb SaveCallback) {
	f.svc.DoAsync(ctx, saveSpec(name, data, acl), d, func(resp *transport.Response, err error) {
		if cb == nil {
			return
		}
		if err != nil {
			cb(nil, err)
			return
		}
		cb(jsonResult(resp), nil)
	})
}

// Fetch downloads the file stored under name.
func (f *FileService) Fetch(ctx context.Context, name string) ([]byte, error) {
	spec, err := fetchSpec(name)
	if err != nil {
		return nil, err
	}
	resp, err := f.svc.Do(ctx, spec)
	if err != nil {
		return nil, err
	}
	return resp.Bytes, nil
}

// FetchAsync is the asynchronous form of Fetch.
func (f *FileService) FetchAsync(ctx context.Context, name string, d dispatch.Dispatcher, cb FetchCallback) {
	spec, err := fetchSpec(name)
	if err != nil {
		fail(d, func() {
			if cb != nil {
				cb(nil, err)
			}
		})
		return
	}
	f.svc.DoAsync(ctx, spec, d, func(resp *transport.Response, err error) {
		if cb == nil {
			return
		}
		if err != nil {
			cb(nil, err)
			return
		}
		cb(resp.Bytes, nil)
	})
}

// Delete removes the file stored under name.
func (f *FileService) Delete(ctx context.Context, name string) error {
	spec, err := deleteSpec(name)
	if err != nil {
		return err
	}
	_, err = f.svc.Do(ctx, spec)
	return err
}

// DeleteAsync is the asynchronous form of Delete.
func (f *FileService) DeleteAsync(ctx context.Context, name string, d dispatch.Dispatcher, cb DeleteCallback) {
	spec, err := deleteSpec(name)
	if err != nil {
		fail(d, func() {
			if cb != nil {
				cb(err)
			}
		})
		return
	}
	f.svc.DoAsync(ctx, spec, d, func(_ *transport.Response, err error) {
		if cb != nil {
			cb(err)
		}
	})
}

func saveSpec(name string, data, acl []byte) request.Spec {
	return request.Spec{
		Method: http.MethodPost,
		Path:   filesPath + name,
		File:   &request.File{Name: name, Data: data, ACL: acl},
	}
}

func fetchSpec(name string) (request.Spec, error) {
	if err := request.ValidateFileName(name); err != nil {
		return request.Spec{}, err
	}
	return request.Spec{Method: http.MethodGet, Path: filesPath + name, Binary: true}, nil
}

func deleteSpec(name string) (request.Spec, error) {
	if err := request.ValidateFileName(name); err != nil {
		return request.Spec{}, err
	}
	return request.Spec{Method: http.MethodDelete, Path: filesPath + name}, nil
}

// jsonResult returns the decoded body, or an empty map for bodiless
// responses.
func jsonResult(resp *transport.Response) map[string]any {
	if resp.JSON == nil {
		return map[string]any{}
	}
	return resp.JSON
}

// fail delivers a validation error asynchronously so callers always observe
// the callback after the call has returned.
func fail(d dispatch.Dispatcher, fn func()) {
	if d == nil {
		d = dispatch.Inline
	}
	go d.Dispatch(fn)
}
