package gattpad

// A Service is a BLE service.
// Calls to AddCharacteristic must occur before the
// service is registered in a Catalog.
type Service struct {
	uuid    UUID
	primary bool
	chars   []*Characteristic
}

// NewService creates a primary service.
func NewService(u UUID) *Service {
	return &Service{uuid: u, primary: true}
}

// SetPrimary marks the service as primary or secondary.
func (s *Service) SetPrimary(primary bool) *Service {
	s.primary = primary
	return s
}

// AddCharacteristic adds a characteristic to a service.
// AddCharacteristic panics if the service already contains
// another characteristic with the same UUID.
func (s *Service) AddCharacteristic(u UUID, props Property) *Characteristic {
	for _, char := range s.chars {
		if char.uuid == u {
			panic("service already contains a characteristic with uuid " + u.String())
		}
	}

	char := &Characteristic{
		service: s,
		uuid:    u,
		props:   props,
	}
	s.chars = append(s.chars, char)
	return char
}

// UUID returns the service's UUID.
func (s *Service) UUID() UUID {
	return s.uuid
}

// Primary reports whether the service is a primary service.
func (s *Service) Primary() bool {
	return s.primary
}

// Characteristics returns the characteristics in the order they were added.
func (s *Service) Characteristics() []*Characteristic {
	return append([]*Characteristic{}, s.chars...)
}

// Characteristic returns the characteristic with UUID u.
func (s *Service) Characteristic(u UUID) (*Characteristic, bool) {
	for _, c := range s.chars {
		if c.uuid == u {
			return c, true
		}
	}
	return nil, false
}

func (s *Service) canNotify() bool {
	for _, c := range s.chars {
		if c.props.CanNotify() {
			return true
		}
	}
	return false
}
