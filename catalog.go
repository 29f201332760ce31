package gattpad

import (
	"context"
	"errors"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
)

var (
	ErrDuplicateService      = errors.New("duplicate service")
	ErrInvalidCharacteristic = errors.New("invalid characteristic")
)

// ServiceRegistrar accepts services, e.g. the BLE stack.
type ServiceRegistrar interface {
	AddService(ctx context.Context, s *Service) error
}

type charKey struct {
	service UUID
	char    UUID
}

// Catalog is the service tree of the peripheral and the routing table
// of the Router. It is built at startup; Register must not be called
// concurrently with Lookup.
type Catalog struct {
	services map[UUID]*Service
	order    []*Service
	chars    map[charKey]*Characteristic
}

func NewCatalog() *Catalog {
	return &Catalog{
		services: make(map[UUID]*Service),
		chars:    make(map[charKey]*Characteristic),
	}
}

// Register adds s to the catalog and, if reg is not nil, to reg.
// Nothing is added if any step fails.
func (c *Catalog) Register(ctx context.Context, reg ServiceRegistrar, s *Service) error {
	if _, found := c.services[s.uuid]; found {
		return fmt.Errorf("%w: %s", ErrDuplicateService, s.uuid)
	}
	for _, char := range s.chars {
		if char.props == 0 {
			return fmt.Errorf("%w: %s/%s has no properties", ErrInvalidCharacteristic, s.uuid, char.uuid)
		}
	}
	if reg != nil {
		if err := addService(ctx, reg, s); err != nil {
			return err
		}
	}

	c.services[s.uuid] = s
	c.order = append(c.order, s)
	for _, char := range s.chars {
		c.chars[charKey{service: s.uuid, char: char.uuid}] = char
	}
	logger.Debugf(ctx, "registered service %s with %d characteristics", s.uuid, len(s.chars))
	return nil
}

// addService registers s with reg. A rejected service that carries
// notifying characteristics is reported as ErrInvalidCharacteristic.
func addService(ctx context.Context, reg ServiceRegistrar, s *Service) error {
	err := reg.AddService(ctx, s)
	if err == nil {
		return nil
	}
	if s.canNotify() {
		return fmt.Errorf("%w: service %s was rejected: %w", ErrInvalidCharacteristic, s.uuid, err)
	}
	return fmt.Errorf("service %s was rejected: %w", s.uuid, err)
}

// Lookup returns the characteristic char of service svc.
func (c *Catalog) Lookup(svc, char UUID) (*Characteristic, bool) {
	ch, ok := c.chars[charKey{service: svc, char: char}]
	return ch, ok
}

// Service returns the service with UUID u.
func (c *Catalog) Service(u UUID) (*Service, bool) {
	s, ok := c.services[u]
	return s, ok
}

// Services returns all services in registration order.
func (c *Catalog) Services() []*Service {
	return append([]*Service{}, c.order...)
}

// PrimaryUUIDs returns the UUIDs of the primary services in registration order.
func (c *Catalog) PrimaryUUIDs() []UUID {
	var uu []UUID
	for _, s := range c.order {
		if s.primary {
			uu = append(uu, s.uuid)
		}
	}
	return uu
}
