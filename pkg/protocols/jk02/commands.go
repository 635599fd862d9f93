package jk02

import (
	"encoding/hex"

	"github.com/powermon-protocol/powermon-go/pkg/protocol"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

var commands = map[string]*protocol.CommandDefn{
	"getInfo": {
		Name:        "getInfo",
		Description: "BLE Device Information inquiry",
		Help:        " -- queries the ble device information",
		Type:        "QUERY",
		Code:        0x97,
		RecordType:  0x03,
		Response: []protocol.FieldDefn{
			{Kind: protocol.FieldHex, Size: 4, Name: "Header"},
			{Kind: protocol.FieldHex, Size: 1, Name: "Record Type"},
			{Kind: protocol.FieldInt, Size: 1, Name: "Record Counter"},
			{Kind: protocol.FieldASCII, Size: 10, Name: "Device Model"},
			{Kind: protocol.FieldASCII, Size: 10, Name: "Hardware Version"},
			{Kind: protocol.FieldASCII, Size: 10, Name: "Software Version"},
			{Kind: protocol.FieldDiscard, Size: 10},
			{Kind: protocol.FieldASCII, Size: 16, Name: "Device Name"},
			{Kind: protocol.FieldASCII, Size: 10, Name: "Device Passcode"},
			{Kind: protocol.FieldASCII, Size: 14, Name: "Unknown1"},
			{Kind: protocol.FieldASCII, Size: 14, Name: "Unknown2"},
			{Kind: protocol.FieldASCII, Size: 16, Name: "User Data"},
			{Kind: protocol.FieldASCII, Size: 16, Name: "Settings Passcode?"},
		},
		TestResponses: [][]byte{
			mustHex("55aaeb9003f14a4b2d42324132345300000000000000332e300000000000332e322e330000000876450004000000506f7765722057616c6c203100000000313233340000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000c2"),
			mustHex("55aaeb9003b54a4b2d42443641323053313050000000342e300000000000342e312e37000000541d1600040000004e6f7468696e67204a4b31000000000031323334000000000000000000000000323030373038000032303036323834303735000000000000496e707574205573657264617461000031323334353600000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000c4"),
		},
	},
	"getCellInfo": {
		Name:        "getCellInfo",
		Description: "BLE Cell Information inquiry",
		Help:        " -- queries the ble cell information",
		Type:        "QUERY",
		Code:        0x96,
		RecordType:  0x02,
		Response: []protocol.FieldDefn{
			{Kind: protocol.FieldHex, Size: 4, Name: "Header"},
			{Kind: protocol.FieldHex, Size: 1, Name: "Record Type"},
			{Kind: protocol.FieldInt, Size: 1, Name: "Record Counter"},
			{Kind: protocol.FieldLoop, Size: 16, Name: "Voltage Cell", Unit: "V", Sub: protocol.Field2ByteHex},
			{Kind: protocol.FieldRemainder},
		},
		TestResponses: [][]byte{
			mustHex("55aaeb90024fb20cb30cb40cb50cb60cb70cb80cb90cba0cbb0cbc0cbd0cbe0cbf0cc00cc10c00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000023"),
		},
	},
}
