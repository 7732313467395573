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
	"sync"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/client"
	"github.com/sage-x-project/ncmb-go/pkg/config"
	"github.com/sage-x-project/ncmb-go/pkg/transport"
)

// Kind names an API service.
type Kind string

// Service kinds
const (
	KindObject       Kind = "object"
	KindUser         Kind = "user"
	KindRole         Kind = "role"
	KindInstallation Kind = "installation"
	KindPush         Kind = "push"
	KindFile         Kind = "file"
)

var knownKinds = map[Kind]bool{
	KindObject:       true,
	KindUser:         true,
	KindRole:         true,
	KindInstallation: true,
	KindPush:         true,
	KindFile:         true,
}

// Kinds returns every known service kind.
func Kinds() []Kind {
	return []Kind{KindObject, KindUser, KindRole, KindInstallation, KindPush, KindFile}
}

type serviceKey struct{ kind Kind }

type metricsKey struct{}

// Get returns the service of kind bound to cfg.
func Get(kind Kind, cfg *config.Context) (*client.Service, error) {
	if err := validate(kind, cfg); err != nil {
		return nil, err
	}

	// LoadOrStore is not reentrant; resolve shared metrics first.
	metrics, err := contextMetrics(cfg)
	if err != nil {
		return nil, err
	}

	v, err := cfg.LoadOrStore(serviceKey{kind}, func() (any, error) {
		return newService(kind, cfg, client.WithMetrics(metrics))
	})
	if err != nil {
		return nil, err
	}
	return v.(*client.Service), nil
}

// Cache maps (Kind, Context) to services without attaching them to the
// Context. Entries are never evicted.
type Cache struct {
	mu       sync.Mutex
	services map[Kind]map[*config.Context]*client.Service
	opts     []client.Option
}

// NewCache creates an empty Cache. opts are applied to every service it
// creates.
func NewCache(opts ...client.Option) *Cache {
	return &Cache{
		services: make(map[Kind]map[*config.Context]*client.Service),
		opts:     opts,
	}
}

// Get returns the cached service of kind for cfg, creating it if absent.
func (c *Cache) Get(kind Kind, cfg *config.Context) (*client.Service, error) {
	if err := validate(kind, cfg); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	byContext, ok := c.services[kind]
	if !ok {
		byContext = make(map[*config.Context]*client.Service)
		c.services[kind] = byContext
	}
	if svc, ok := byContext[cfg]; ok {
		return svc, nil
	}

	svc, err := newService(kind, cfg, c.opts...)
	if err != nil {
		return nil, err
	}
	byContext[cfg] = svc
	return svc, nil
}

// Len returns the number of cached services.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, byContext := range c.services {
		n += len(byContext)
	}
	return n
}

func validate(kind Kind, cfg *config.Context) error {
	if cfg == nil {
		return apierror.New(apierror.KindInvalidArgument, "configuration context is required")
	}
	if !knownKinds[kind] {
		return apierror.New(apierror.KindInvalidArgument, "unknown service kind %q", kind)
	}
	return nil
}

func newService(kind Kind, cfg *config.Context, opts ...client.Option) (*client.Service, error) {
	base := []client.Option{
		client.WithLogger(cfg.Logger().WithField("service", string(kind))),
	}
	if kind == KindFile {
		base = append(base, client.WithTimeout(client.FileTimeout))
	}
	return client.NewService(cfg, append(base, opts...)...)
}

// contextMetrics returns the transport metrics shared by the services of
// cfg, or nil when cfg has no registerer.
func contextMetrics(cfg *config.Context) (*transport.Metrics, error) {
	reg := cfg.Registerer()
	if reg == nil {
		return nil, nil
	}
	v, err := cfg.LoadOrStore(metricsKey{}, func() (any, error) {
		m, err := transport.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*transport.Metrics), nil
}
