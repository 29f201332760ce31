package hogp

import (
	"encoding/binary"

	"github.com/xaionaro-go/gattpad"
)

// PnPID is the value of the PnP ID characteristic.
type PnPID struct {
	VendorIDSource uint8 // 1: Bluetooth SIG, 2: USB Implementer's Forum
	VendorID       uint16
	ProductID      uint16
	Version        uint16
}

func (p PnPID) Bytes() []byte {
	b := make([]byte, 7)
	b[0] = p.VendorIDSource
	binary.LittleEndian.PutUint16(b[1:], p.VendorID)
	binary.LittleEndian.PutUint16(b[3:], p.ProductID)
	binary.LittleEndian.PutUint16(b[5:], p.Version)
	return b
}

// DeviceInformation is the content of the Device Information service.
type DeviceInformation struct {
	Manufacturer string
	Model        string
	PnP          PnPID
}

// DefaultDeviceInformation uses the pid.codes test VID/PID.
func DefaultDeviceInformation() DeviceInformation {
	return DeviceInformation{
		Manufacturer: "gattpad",
		Model:        "Virtual Gamepad",
		PnP: PnPID{
			VendorIDSource: 2,
			VendorID:       0x1209,
			ProductID:      0x0001,
			Version:        0x0100,
		},
	}
}

func newDeviceInformationService(info DeviceInformation) *gattpad.Service {
	s := gattpad.NewService(gattpad.ServiceDeviceInformation)
	s.AddCharacteristic(gattpad.CharManufacturerName, gattpad.PropRead).SetValue([]byte(info.Manufacturer))
	s.AddCharacteristic(gattpad.CharModelNumber, gattpad.PropRead).SetValue([]byte(info.Model))
	s.AddCharacteristic(gattpad.CharPnPID, gattpad.PropRead).SetValue(info.PnP.Bytes())
	return s
}
