package gattpad

import "strings"

// Property is a set of characteristic capabilities.
type Property uint16

// Do not re-order the bit flags below;
// the low byte matches the characteristic declaration in the BLE spec.
const (
	PropRead                 Property = 0x02 // the characteristic may be read
	PropWriteWithoutResponse Property = 0x04 // the characteristic may be written to, with no reply
	PropWrite                Property = 0x08 // the characteristic may be written to, with a reply
	PropNotify               Property = 0x10 // the characteristic supports notifications
	PropIndicate             Property = 0x20 // the characteristic supports indications

	// PropNotifyEncryptionRequired is not a declaration bit: notifications
	// are declared as PropNotify and only sent over an encrypted link.
	PropNotifyEncryptionRequired Property = 0x0100
)

var propertyNames = []struct {
	p    Property
	name string
}{
	{PropRead, "Read"},
	{PropWrite, "Write"},
	{PropWriteWithoutResponse, "WriteWithoutResponse"},
	{PropNotify, "Notify"},
	{PropNotifyEncryptionRequired, "NotifyEncryptionRequired"},
	{PropIndicate, "Indicate"},
}

// Has reports whether every flag of f is set in p.
func (p Property) Has(f Property) bool {
	return f != 0 && p&f == f
}

// CanNotify reports whether a central may subscribe to the characteristic.
func (p Property) CanNotify() bool {
	return p&(PropNotify|PropNotifyEncryptionRequired|PropIndicate) != 0
}

// RequiresEncryption reports whether notifications need an encrypted link.
func (p Property) RequiresEncryption() bool {
	return p.Has(PropNotifyEncryptionRequired)
}

// Declaration returns the properties byte of the characteristic declaration.
func (p Property) Declaration() byte {
	d := byte(p)
	if p.Has(PropNotifyEncryptionRequired) {
		d |= byte(PropNotify)
	}
	return d
}

func (p Property) String() string {
	if p == 0 {
		return "None"
	}
	var names []string
	for _, n := range propertyNames {
		if p.Has(n.p) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}
