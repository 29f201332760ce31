package hogp

import (
	"context"

	"github.com/xaionaro-go/gattpad"
)

func (g *Gamepad) newBatteryService() *gattpad.Service {
	s := gattpad.NewService(gattpad.ServiceBattery)
	s.AddCharacteristic(gattpad.CharBatteryLevel, gattpad.PropRead|gattpad.PropNotify).HandleReadFunc(
		func(ctx context.Context, resp gattpad.ResponseWriter, req *gattpad.ReadRequest) {
			resp.Write([]byte{g.BatteryLevel()})
		})
	return s
}
