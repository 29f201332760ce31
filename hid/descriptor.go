// Package hid encodes the report descriptor and the input reports of the
// gamepad. The descriptor is parsed back at init and checked against the
// report encoder, so the two cannot drift apart.
package hid

import (
	"fmt"
)

// Item types of short items.
const (
	ItemTypeMain   = 0
	ItemTypeGlobal = 1
	ItemTypeLocal  = 2
)

// Main item tags.
const (
	TagInput         = 0x8
	TagOutput        = 0x9
	TagCollection    = 0xA
	TagFeature       = 0xB
	TagEndCollection = 0xC
)

// Global item tags.
const (
	TagUsagePage   = 0x0
	TagLogicalMin  = 0x1
	TagLogicalMax  = 0x2
	TagReportSize  = 0x7
	TagReportID    = 0x8
	TagReportCount = 0x9
	TagPush        = 0xA
	TagPop         = 0xB
)

// Local item tags.
const (
	TagUsage    = 0x0
	TagUsageMin = 0x1
	TagUsageMax = 0x2
)

// Usage pages and usages referenced by the descriptor.
const (
	UsagePageGenericDesktop = 0x01
	UsagePageButton         = 0x09

	UsageGamepad   = 0x05
	UsageX         = 0x30
	UsageY         = 0x31
	UsageZ         = 0x32
	UsageRz        = 0x35
	UsageHatSwitch = 0x39
)

// CollectionApplication is the data of an Application collection item.
const CollectionApplication = 0x01

// Input item flags.
const (
	FlagConstant  = 0x01
	FlagVariable  = 0x02
	FlagRelative  = 0x04
	FlagNullState = 0x40
)

func shortItem(typ, tag byte, data ...byte) []byte {
	var size byte
	switch len(data) {
	case 0, 1, 2:
		size = byte(len(data))
	case 4:
		size = 3
	default:
		panic(fmt.Sprintf("invalid short item data length %d", len(data)))
	}
	return append([]byte{tag<<4 | typ<<2 | size}, data...)
}

func usagePage(p byte) []byte   { return shortItem(ItemTypeGlobal, TagUsagePage, p) }
func usage(u byte) []byte       { return shortItem(ItemTypeLocal, TagUsage, u) }
func usageMin(u byte) []byte    { return shortItem(ItemTypeLocal, TagUsageMin, u) }
func usageMax(u byte) []byte    { return shortItem(ItemTypeLocal, TagUsageMax, u) }
func logicalMin(v int8) []byte  { return shortItem(ItemTypeGlobal, TagLogicalMin, byte(v)) }
func logicalMax(v int8) []byte  { return shortItem(ItemTypeGlobal, TagLogicalMax, byte(v)) }
func reportSize(n byte) []byte  { return shortItem(ItemTypeGlobal, TagReportSize, n) }
func reportCount(n byte) []byte { return shortItem(ItemTypeGlobal, TagReportCount, n) }
func reportID(id byte) []byte   { return shortItem(ItemTypeGlobal, TagReportID, id) }
func input(flags byte) []byte   { return shortItem(ItemTypeMain, TagInput, flags) }
func collection(k byte) []byte  { return shortItem(ItemTypeMain, TagCollection, k) }
func endCollection() []byte     { return shortItem(ItemTypeMain, TagEndCollection) }

func items(ii ...[]byte) []byte {
	var b []byte
	for _, i := range ii {
		b = append(b, i...)
	}
	return b
}

var descriptor = items(
	usagePage(UsagePageGenericDesktop),
	usage(UsageGamepad),
	collection(CollectionApplication),
	reportID(ReportID),

	// 16 buttons, one bit each
	usagePage(UsagePageButton),
	usageMin(1),
	usageMax(NumButtons),
	logicalMin(0),
	logicalMax(1),
	reportCount(NumButtons),
	reportSize(1),
	input(FlagVariable),

	// hat switch, 4 bits with a null state, then 4 bits of padding
	usagePage(UsagePageGenericDesktop),
	usage(UsageHatSwitch),
	logicalMin(0),
	logicalMax(int8(HatNorthWest)),
	reportSize(4),
	reportCount(1),
	input(FlagVariable|FlagNullState),
	reportSize(4),
	reportCount(1),
	input(FlagConstant|FlagVariable),

	// X, Y, Z, Rz
	usagePage(UsagePageGenericDesktop),
	usage(UsageX),
	usage(UsageY),
	usage(UsageZ),
	usage(UsageRz),
	logicalMin(-AxisMax),
	logicalMax(AxisMax),
	reportSize(8),
	reportCount(NumAxes),
	input(FlagVariable),

	endCollection(),
)

// Descriptor returns the HID report map of the gamepad.
// Every call returns the same bytes.
func Descriptor() []byte {
	return append([]byte{}, descriptor...)
}
