package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xaionaro-go/gattpad/hid"
)

// DescriptorCmd prints the report map item by item, then the fields it
// declares.
type DescriptorCmd struct {
	Raw bool `help:"Print only the hex bytes."`
}

func (c *DescriptorCmd) Run() error {
	return printDescriptor(os.Stdout, hid.Descriptor(), c.Raw)
}

func printDescriptor(w io.Writer, desc []byte, raw bool) error {
	if raw {
		_, err := fmt.Fprintln(w, hex.EncodeToString(desc))
		return err
	}

	items, err := hid.Items(desc)
	if err != nil {
		return err
	}
	depth := 0
	for _, it := range items {
		if it.Type == hid.ItemTypeMain && it.Tag == hid.TagEndCollection {
			depth--
		}
		fmt.Fprintf(w, "%-12s %s%s\n", hex.EncodeToString(it.Bytes()), strings.Repeat("  ", max(depth, 0)), it)
		if it.Type == hid.ItemTypeMain && it.Tag == hid.TagCollection {
			depth++
		}
	}

	layout, err := hid.ParseLayout(desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d bytes, %d fields:\n", len(desc), len(layout.Fields))
	for _, f := range layout.Fields {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return nil
}

// EncodeCmd prints the encoded report of the given state.
type EncodeCmd struct {
	Buttons []int  `help:"Pressed buttons, 1-16."`
	Hat     string `default:"none" help:"Hat direction: N, NE, E, SE, S, SW, W, NW or none."`
	X       int    `help:"X axis, -127..127."`
	Y       int    `help:"Y axis, -127..127."`
	Z       int    `help:"Z axis, -127..127."`
	Rz      int    `help:"Rz axis, -127..127."`
}

func (c *EncodeCmd) Run() error {
	b, err := c.encode()
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(b))
	return nil
}

func (c *EncodeCmd) encode() ([]byte, error) {
	hat, err := hid.ParseHat(c.Hat)
	if err != nil {
		return nil, err
	}
	var buttons uint16
	for _, n := range c.Buttons {
		if n < 1 || n > hid.NumButtons {
			return nil, fmt.Errorf("button %d is out of range 1-%d", n, hid.NumButtons)
		}
		buttons |= 1 << (n - 1)
	}
	r, err := hid.NewReport(buttons, hat, [hid.NumAxes]int{c.X, c.Y, c.Z, c.Rz})
	if err != nil {
		return nil, err
	}
	return hid.Encode(r)
}

// DecodeCmd prints the state carried by an encoded report.
type DecodeCmd struct {
	Report string `arg:"" help:"Report bytes in hex, including the report ID."`
}

func (c *DecodeCmd) Run() error {
	r, err := decodeHex(c.Report)
	if err != nil {
		return err
	}
	fmt.Println(r)
	return nil
}

func decodeHex(s string) (hid.Report, error) {
	b, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if err != nil {
		return hid.Report{}, fmt.Errorf("invalid hex: %w", err)
	}
	return hid.Decode(b)
}
