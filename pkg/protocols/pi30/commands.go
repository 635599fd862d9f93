package pi30

import "github.com/powermon-protocol/powermon-go/pkg/protocol"

var commands = map[string]*protocol.CommandDefn{
	"QPI": {
		Name:        "QPI",
		Description: "Protocol ID inquiry",
		Help:        " -- queries the device protocol ID",
		Type:        "QUERY",
		Response: []protocol.FieldDefn{
			{Kind: protocol.FieldString, Name: "Protocol ID"},
		},
		TestResponses: [][]byte{
			[]byte("(PI30\x9a\x0b\r"),
		},
	},
	"QID": {
		Name:        "QID",
		Description: "Device serial number inquiry",
		Help:        " -- queries the device serial number",
		Type:        "QUERY",
		Response: []protocol.FieldDefn{
			{Kind: protocol.FieldString, Name: "Serial Number"},
		},
		TestResponses: [][]byte{
			[]byte("(92931701100510\x42\x27\r"),
		},
	},
	"QMOD": {
		Name:        "QMOD",
		Description: "Mode inquiry",
		Help:        " -- queries the device mode",
		Type:        "QUERY",
		Response: []protocol.FieldDefn{
			{Kind: protocol.FieldOption, Name: "Device Mode", Options: map[string]string{
				"P": "Power on",
				"S": "Standby",
				"L": "Line",
				"B": "Battery",
				"F": "Fault",
				"H": "Power saving",
			}},
		},
		TestResponses: [][]byte{
			[]byte("(B\xe7\xc9\r"),
			[]byte("(L\x06\x07\r"),
		},
	},
	"QPIGS": {
		Name:        "QPIGS",
		Description: "General status parameters inquiry",
		Help:        " -- queries the general status of the device",
		Type:        "QUERY",
		Response: []protocol.FieldDefn{
			{Kind: protocol.FieldFloat, Name: "AC Input Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "AC Input Frequency", Unit: "Hz"},
			{Kind: protocol.FieldFloat, Name: "AC Output Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "AC Output Frequency", Unit: "Hz"},
			{Kind: protocol.FieldInt, Name: "AC Output Apparent Power", Unit: "VA"},
			{Kind: protocol.FieldInt, Name: "AC Output Active Power", Unit: "W"},
			{Kind: protocol.FieldInt, Name: "AC Output Load", Unit: "%"},
			{Kind: protocol.FieldInt, Name: "BUS Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "Battery Voltage", Unit: "V"},
			{Kind: protocol.FieldInt, Name: "Battery Charging Current", Unit: "A"},
			{Kind: protocol.FieldInt, Name: "Battery Capacity", Unit: "%"},
			{Kind: protocol.FieldInt, Name: "Inverter Heat Sink Temperature", Unit: "°C"},
			{Kind: protocol.FieldFloat, Name: "PV Input Current for Battery", Unit: "A"},
			{Kind: protocol.FieldFloat, Name: "PV Input Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "Battery Voltage from SCC", Unit: "V"},
			{Kind: protocol.FieldInt, Name: "Battery Discharge Current", Unit: "A"},
			{Kind: protocol.FieldFlags, Flags: []string{
				"Is SBU Priority Version Added",
				"Is Configuration Changed",
				"Is SCC Firmware Updated",
				"Is Load On",
				"Is Battery Voltage to Steady While Charging",
				"Is Charging On",
				"Is SCC Charging On",
				"Is AC Charging On",
			}},
			{Kind: protocol.FieldInt, Name: "RSV1", Unit: "A"},
			{Kind: protocol.FieldInt, Name: "RSV2", Unit: "A"},
			{Kind: protocol.FieldInt, Name: "PV Input Power", Unit: "W"},
			{Kind: protocol.FieldFlags, Flags: []string{
				"Is Charging to Float",
				"Is Switched On",
				"Is Reserved",
			}},
		},
		TestResponses: [][]byte{
			[]byte("(000.0 00.0 230.0 49.9 0161 0119 003 460 57.50 012 100 0069 0014 103.8 57.45 0000 00000110 00 00 00856 010\xad\xb7\r"),
		},
	},
	"QPIRI": {
		Name:        "QPIRI",
		Description: "Current settings inquiry",
		Help:        " -- queries the current settings of the device",
		Type:        "QUERY",
		Response: []protocol.FieldDefn{
			{Kind: protocol.FieldFloat, Name: "AC Input Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "AC Input Current", Unit: "A"},
			{Kind: protocol.FieldFloat, Name: "AC Output Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "AC Output Frequency", Unit: "Hz"},
			{Kind: protocol.FieldFloat, Name: "AC Output Current", Unit: "A"},
			{Kind: protocol.FieldInt, Name: "AC Output Apparent Power", Unit: "VA"},
			{Kind: protocol.FieldInt, Name: "AC Output Active Power", Unit: "W"},
			{Kind: protocol.FieldFloat, Name: "Battery Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "Battery Recharge Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "Battery Under Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "Battery Bulk Charge Voltage", Unit: "V"},
			{Kind: protocol.FieldFloat, Name: "Battery Float Charge Voltage", Unit: "V"},
			{Kind: protocol.FieldOption, Name: "Battery Type", Options: map[string]string{
				"0": "AGM",
				"1": "Flooded",
				"2": "User",
			}},
			{Kind: protocol.FieldInt, Name: "Max AC Charging Current", Unit: "A"},
			{Kind: protocol.FieldInt, Name: "Max Charging Current", Unit: "A"},
			{Kind: protocol.FieldOption, Name: "Input Voltage Range", Options: map[string]string{
				"0": "Appliance",
				"1": "UPS",
			}},
			{Kind: protocol.FieldOption, Name: "Output Source Priority", Options: map[string]string{
				"0": "Utility first",
				"1": "Solar first",
				"2": "SBU first",
			}},
			{Kind: protocol.FieldOption, Name: "Charger Source Priority", Options: map[string]string{
				"0": "Utility first",
				"1": "Solar first",
				"2": "Solar + Utility",
				"3": "Only solar charging permitted",
			}},
			{Kind: protocol.FieldInt, Name: "Max Parallel Units"},
			{Kind: protocol.FieldOption, Name: "Machine Type", Options: map[string]string{
				"00": "Grid tie",
				"01": "Off Grid",
				"10": "Hybrid",
			}},
			{Kind: protocol.FieldOption, Name: "Topology", Options: map[string]string{
				"0": "transformerless",
				"1": "transformer",
			}},
			{Kind: protocol.FieldOption, Name: "Output Mode", Options: map[string]string{
				"0": "single machine output",
				"1": "parallel output",
				"2": "Phase 1 of 3 Phase output",
				"3": "Phase 2 of 3 Phase output",
				"4": "Phase 3 of 3 Phase output",
			}},
			{Kind: protocol.FieldFloat, Name: "Battery Redischarge Voltage", Unit: "V"},
			{Kind: protocol.FieldOption, Name: "PV OK Condition", Options: map[string]string{
				"0": "As long as one unit of inverters has connect PV, parallel system will consider PV OK",
				"1": "Only All of inverters have connect PV, parallel system will consider PV OK",
			}},
			{Kind: protocol.FieldOption, Name: "PV Power Balance", Options: map[string]string{
				"0": "PV input max current will be the max charged current",
				"1": "PV input max power will be the sum of the max charged power and loads power",
			}},
		},
		TestResponses: [][]byte{
			[]byte("(230.0 21.7 230.0 50.0 21.7 5000 4000 48.0 46.0 42.0 56.4 54.0 0 10 010 0 0 0 6 01 0 0 54.0 0 1\x0b\x75\r"),
		},
	},
}
