// Command gattpad emulates a Bluetooth LE gamepad (HID over GATT).
package main

import (
	"context"

	"github.com/alecthomas/kong"
)

// CLI is the root command structure for gattpad.
type CLI struct {
	LogLevel string          `name:"log-level" default:"info" env:"GATTPAD_LOG_LEVEL" enum:"trace,debug,info,warning,error" help:"Logging level (${enum})."`
	Config   kong.ConfigFlag `help:"Load flag defaults from a JSON file."`

	Serve      ServeCmd      `cmd:"" default:"withargs" help:"Run the gamepad on the Bluetooth adapter (default)."`
	Sim        SimCmd        `cmd:"" help:"Run the gamepad against a simulated stack and central."`
	Descriptor DescriptorCmd `cmd:"" help:"Print the HID report descriptor."`
	Encode     EncodeCmd     `cmd:"" help:"Encode an input report."`
	Decode     DecodeCmd     `cmd:"" help:"Decode an input report."`
}

var configPaths = []string{
	"/etc/gattpad.json",
	"~/.config/gattpad.json",
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("gattpad"),
		kong.Description("A virtual Bluetooth LE gamepad."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, configPaths...),
	)

	ctx := withLogger(context.Background(), cli.LogLevel)
	ctx, cancel := signalContext(ctx)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.FatalIfErrorf(kctx.Run(&cli))
}
