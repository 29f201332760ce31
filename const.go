package gattpad

// This file includes constants from the BLE spec and the assigned numbers
// of every service and characteristic the peripheral exposes.

// Services.
var (
	ServiceGenericAccess     = UUID16(0x1800)
	ServiceGenericAttribute  = UUID16(0x1801)
	ServiceDeviceInformation = UUID16(0x180A)
	ServiceBattery           = UUID16(0x180F)
	ServiceHID               = UUID16(0x1812)
)

// Characteristics.
var (
	CharBatteryLevel     = UUID16(0x2A19)
	CharModelNumber      = UUID16(0x2A24)
	CharManufacturerName = UUID16(0x2A29)
	CharHIDInformation   = UUID16(0x2A4A)
	CharReportMap        = UUID16(0x2A4B)
	CharHIDControlPoint  = UUID16(0x2A4C)
	CharReport           = UUID16(0x2A4D)
	CharProtocolMode     = UUID16(0x2A4E)
	CharPnPID            = UUID16(0x2A50)
)

// Descriptors.
var (
	DescClientCharacteristicConfig = UUID16(0x2902)
	DescReportReference            = UUID16(0x2908)
)

// Client Characteristic Configuration bits.
const (
	CCCNotifyFlag   = 0x0001
	CCCIndicateFlag = 0x0002
)

// MaxAttributeValueLength is the longest value an attribute may hold.
const MaxAttributeValueLength = 512

type AttrECode byte

const (
	AttrECodeSuccess           AttrECode = 0x00 // Success
	AttrECodeInvalidHandle     AttrECode = 0x01 // The attribute handle given was not valid on this server.
	AttrECodeReadNotPerm       AttrECode = 0x02 // The attribute cannot be read.
	AttrECodeWriteNotPerm      AttrECode = 0x03 // The attribute cannot be written.
	AttrECodeInvalidPDU        AttrECode = 0x04 // The attribute PDU was invalid.
	AttrECodeAuthentication    AttrECode = 0x05 // The attribute requires authentication before it can be read or written.
	AttrECodeReqNotSupp        AttrECode = 0x06 // Attribute server does not support the request received from the client.
	AttrECodeInvalidOffset     AttrECode = 0x07 // Offset specified was past the end of the attribute.
	AttrECodeAuthorization     AttrECode = 0x08 // The attribute requires authorization before it can be read or written.
	AttrECodePrepQueueFull     AttrECode = 0x09 // Too many prepare writes have been queued.
	AttrECodeAttrNotFound      AttrECode = 0x0a // No attribute found within the given attribute handle range.
	AttrECodeAttrNotLong       AttrECode = 0x0b // The attribute cannot be read or written using the Read Blob Request.
	AttrECodeInsuffEncrKeySize AttrECode = 0x0c // The Encryption Key Size used for encrypting this link is insufficient.
	AttrECodeInvalAttrValueLen AttrECode = 0x0d // The attribute value length is invalid for the operation.
	AttrECodeUnlikely          AttrECode = 0x0e // The attribute request that was requested has encountered an error that was unlikely, and therefore could not be completed as requested.
	AttrECodeInsuffEnc         AttrECode = 0x0f // The attribute requires encryption before it can be read or written.
	AttrECodeUnsuppGrpType     AttrECode = 0x10 // The attribute type is not a supported grouping attribute as defined by a higher layer specification.
	AttrECodeInsuffResources   AttrECode = 0x11 // Insufficient Resources to complete the request.
	AttrECodeValueNotAllowed   AttrECode = 0x13 // The attribute parameter value was not allowed.
)

// Supported statuses for characteristic read/write operations.
const (
	StatusSuccess         = AttrECodeSuccess
	StatusInvalidOffset   = AttrECodeInvalidOffset
	StatusUnexpectedError = AttrECodeUnlikely
)

func (a AttrECode) Error() string {
	if name, ok := attrECodeName[a]; ok {
		return name
	}
	switch i := int(a); {
	case i >= 0x80 && i <= 0x9F:
		return "application error"
	case i >= 0xE0:
		return "profile or service error"
	default:
		return "reserved error code"
	}
}

var attrECodeName = map[AttrECode]string{
	AttrECodeSuccess:           "success",
	AttrECodeInvalidHandle:     "invalid handle",
	AttrECodeReadNotPerm:       "read not permitted",
	AttrECodeWriteNotPerm:      "write not permitted",
	AttrECodeInvalidPDU:        "invalid PDU",
	AttrECodeAuthentication:    "insufficient authentication",
	AttrECodeReqNotSupp:        "request not supported",
	AttrECodeInvalidOffset:     "invalid offset",
	AttrECodeAuthorization:     "insufficient authorization",
	AttrECodePrepQueueFull:     "prepare queue full",
	AttrECodeAttrNotFound:      "attribute not found",
	AttrECodeAttrNotLong:       "attribute not long",
	AttrECodeInsuffEncrKeySize: "insufficient encryption key size",
	AttrECodeInvalAttrValueLen: "invalid attribute value length",
	AttrECodeUnlikely:          "unlikely error",
	AttrECodeInsuffEnc:         "insufficient encryption",
	AttrECodeUnsuppGrpType:     "unsupported group type",
	AttrECodeInsuffResources:   "insufficient resources",
	AttrECodeValueNotAllowed:   "value not allowed",
}
