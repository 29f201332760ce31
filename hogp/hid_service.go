package hogp

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/gattpad"
	"github.com/xaionaro-go/gattpad/hid"
)

// ProtocolMode is the value of the Protocol Mode characteristic.
type ProtocolMode uint8

const (
	ProtocolModeBoot   ProtocolMode = 0x00
	ProtocolModeReport ProtocolMode = 0x01
)

func (m ProtocolMode) String() string {
	switch m {
	case ProtocolModeBoot:
		return "Boot"
	case ProtocolModeReport:
		return "Report"
	default:
		return fmt.Sprintf("ProtocolMode(%d)", uint8(m))
	}
}

// HID Control Point commands.
const (
	ControlSuspend     = 0x00
	ControlExitSuspend = 0x01
)

// hidInformation is bcdHID 1.11, country code 0,
// flags RemoteWake|NormallyConnectable.
var hidInformation = []byte{0x11, 0x01, 0x00, 0x03}

func (g *Gamepad) newHIDService() *gattpad.Service {
	s := gattpad.NewService(gattpad.ServiceHID)

	s.AddCharacteristic(gattpad.CharHIDInformation, gattpad.PropRead).SetValue(hidInformation)

	s.AddCharacteristic(gattpad.CharReportMap, gattpad.PropRead).SetValue(hid.Descriptor())

	s.AddCharacteristic(gattpad.CharHIDControlPoint, gattpad.PropWriteWithoutResponse).HandleWriteFunc(
		func(ctx context.Context, r gattpad.Request, data []byte) gattpad.AttrECode {
			if len(data) != 1 {
				return gattpad.AttrECodeInvalAttrValueLen
			}
			switch data[0] {
			case ControlSuspend:
				g.suspended.Store(true)
			case ControlExitSuspend:
				g.suspended.Store(false)
			default:
				return gattpad.AttrECodeValueNotAllowed
			}
			logger.Debugf(ctx, "central %s: suspended: %t", r.Central, g.Suspended())
			return gattpad.StatusSuccess
		})

	s.AddCharacteristic(gattpad.CharProtocolMode, gattpad.PropRead|gattpad.PropWriteWithoutResponse).
		HandleReadFunc(func(ctx context.Context, resp gattpad.ResponseWriter, req *gattpad.ReadRequest) {
			resp.Write([]byte{byte(g.ProtocolMode())})
		}).
		HandleWriteFunc(func(ctx context.Context, r gattpad.Request, data []byte) gattpad.AttrECode {
			if len(data) != 1 {
				return gattpad.AttrECodeInvalAttrValueLen
			}
			m := ProtocolMode(data[0])
			if m != ProtocolModeBoot && m != ProtocolModeReport {
				return gattpad.AttrECodeValueNotAllowed
			}
			g.protocolMode.Store(uint32(m))
			logger.Debugf(ctx, "central %s: protocol mode: %s", r.Central, m)
			return gattpad.StatusSuccess
		})

	s.AddCharacteristic(gattpad.CharReport, gattpad.PropRead|gattpad.PropNotifyEncryptionRequired).HandleReadFunc(
		func(ctx context.Context, resp gattpad.ResponseWriter, req *gattpad.ReadRequest) {
			resp.Write(g.report.Bytes())
		})

	return s
}
