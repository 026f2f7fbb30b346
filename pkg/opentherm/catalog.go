// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

// catalogRow is the storage form of a catalog entry: key, direction,
// bit position, encoding, min, max, units, description. Descriptions
// may carry `;`-separated conditional clauses ("==1 text;==2 text").
type catalogRow struct {
	key   string
	dir   string
	pos   string
	kind  Encoding
	min   float64
	max   float64
	units string
	descr string
}

// The data-id table of the OpenTherm 2.2 specification plus ids collected
// from opentherm.eu request details, the OTGW firmware notes, and boiler
// observations. Entries marked "unsure" in those sources keep conservative
// bounds. Row order is display and scan order.
var catalog = []catalogRow{
	{"000", "RI", "", EncFlags, 0, 1, "", "Master/slave status"},
	{"000I", "R", "", EncFlags, 0, 1, "", "Master/slave status"},
	{"000I:HB0", "R", "HB0", EncFlags, 0, 1, "", "Master status: CH enable"},
	{"000I:HB1", "R", "HB1", EncFlags, 0, 1, "", "Master status: DHW enable"},
	{"000I:HB2", "R", "HB2", EncFlags, 0, 1, "", "Master status: Cooling enable"},
	{"000I:HB3", "R", "HB3", EncFlags, 0, 1, "", "Master status: OTC active"},
	{"000I:HB4", "R", "HB4", EncFlags, 0, 1, "", "Master status: CH2 enable"},
	{"000I:HB5", "R", "HB5", EncFlags, 0, 1, "", "Master status: Summer/winter mode"},
	{"000I:HB6", "R", "HB6", EncFlags, 0, 1, "", "Master status: DHW blocking"},
	{"000I:HB7", "R", "HB7", EncFlags, 0, 1, "", "Master status: reserved"},
	{"000:HB0", "R", "HB0", EncFlags, 0, 1, "", "Master status: CH enable"},
	{"000:HB1", "R", "HB1", EncFlags, 0, 1, "", "Master status: DHW enable"},
	{"000:HB2", "R", "HB2", EncFlags, 0, 1, "", "Master status: Cooling enable"},
	{"000:HB3", "R", "HB3", EncFlags, 0, 1, "", "Master status: OTC active"},
	{"000:HB4", "R", "HB4", EncFlags, 0, 1, "", "Master status: CH2 enable"},
	{"000:HB5", "R", "HB5", EncFlags, 0, 1, "", "Master status: Summer/winter mode"},
	{"000:HB6", "R", "HB6", EncFlags, 0, 1, "", "Master status: DHW blocking"},
	{"000:HB7", "R", "HB7", EncFlags, 0, 1, "", "Master status: reserved"},
	{"000:LB0", "R", "LB0", EncFlags, 0, 1, "", "Slave Status: Fault"},
	{"000:LB1", "R", "LB1", EncFlags, 0, 1, "", "Slave Status: CH mode"},
	{"000:LB2", "R", "LB2", EncFlags, 0, 1, "", "Slave Status: DHW mode"},
	{"000:LB3", "R", "LB3", EncFlags, 0, 1, "", "Slave Status: Flame on"},
	{"000:LB4", "R", "LB4", EncFlags, 0, 1, "", "Slave Status: Cooling on"},
	{"000:LB5", "R", "LB5", EncFlags, 0, 1, "", "Slave Status: CH2 active"},
	{"000:LB6", "R", "LB6", EncFlags, 0, 1, "", "Slave Status: Diagnostic/service indication"},
	{"000:LB7", "R", "LB7", EncFlags, 0, 1, "", "Slave Status: Electricity production"},
	{"001", "RW", "", EncNone, 0, 100, "°C", "CH water temperature Setpoint"},
	{"001W", "W", "", EncF88, 0, 100, "°C", "CH water temperature Setpoint"},
	{"001R", "R", "", EncF88, 0, 100, "°C", "CH water temperature Setpoint"},
	{"002", "W", "", EncFlags, 0, 1, "", "Master configuration"},
	{"002:LB", "W", "0-7", EncU8, 0, 255, "", "Master configuration: MemberId code"},
	{"002:HB0", "W", "HB0", EncFlags, 0, 1, "", "Master configuration: Smart power"},
	{"003", "R", "", EncFlags, 0, 1, "", "Slave configuration"},
	{"003:LB", "R", "0-7", EncU8, 0, 255, "", "Slave configuration: MemberId code"},
	{"003:HB0", "R", "HB0", EncFlags, 0, 1, "", "Slave configuration: DHW present"},
	{"003:HB1", "R", "HB1", EncFlags, 0, 1, "", "Slave configuration: On/Off control only"},
	{"003:HB2", "R", "HB2", EncFlags, 0, 1, "", "Slave configuration: Cooling supported"},
	{"003:HB3", "R", "HB3", EncFlags, 0, 1, "", "Slave configuration: DHW configuration"},
	{"003:HB4", "R", "HB4", EncFlags, 0, 1, "", "Slave configuration: Master low-off&pump control allowed"},
	{"003:HB5", "R", "HB5", EncFlags, 0, 1, "", "Slave configuration: CH2 present"},
	{"003:HB6", "R", "HB6", EncFlags, 0, 1, "", "Slave configuration: Remote water filling function"},
	{"003:HB7", "R", "HB7", EncFlags, 0, 1, "", "Heat/cool mode control"},
	{"004", "RW", "", EncNone, 0, 0, "", "Slave control"},
	{"004W", "W", "8-15", EncU8, 0, 255, "", "==1 Boiler Lockout-reset;==10 Service request reset;==2 Request Water filling"},
	{"004R", "R", "0-7", EncU8, 0, 255, "", ">127 response ok;<128 response error"},
	{"005", "R", "", EncFlags, 0, 1, "", "Boiler faults"},
	{"005:HB0", "R", "HB0", EncFlags, 0, 1, "", "Service required"},
	{"005:HB1", "R", "HB1", EncFlags, 0, 1, "", "Lockout-reset enabled"},
	{"005:HB2", "R", "HB2", EncFlags, 0, 1, "", "Low water pressure"},
	{"005:HB3", "R", "HB3", EncFlags, 0, 1, "", "Gas/flame fault"},
	{"005:HB4", "R", "HB4", EncFlags, 0, 1, "", "Air pressure fault"},
	{"005:HB5", "R", "HB5", EncFlags, 0, 1, "", "Water over-temperature"},
	{"005:LB", "R", "0-7", EncU8, 0, 255, "", "OEM fault code"},
	{"006", "R", "", EncFlags, 0, 1, "", "Remote boiler parameters"},
	{"006:HB0", "R", "HB0", EncFlags, 0, 1, "", "transfer-enabled: DHW setpoint"},
	{"006:HB1", "R", "HB1", EncFlags, 0, 1, "", "transfer-enabled: max. CH setpoint"},
	{"006:HB2", "R", "HB2", EncFlags, 0, 1, "", "transfer-enabled: param 2 (OTC HC ratio)"},
	{"006:HB3", "R", "HB3", EncFlags, 0, 1, "", "transfer-enabled: param 3"},
	{"006:HB4", "R", "HB4", EncFlags, 0, 1, "", "transfer-enabled: param 4"},
	{"006:HB5", "R", "HB5", EncFlags, 0, 1, "", "transfer-enabled: param 5"},
	{"006:HB6", "R", "HB6", EncFlags, 0, 1, "", "transfer-enabled: param 6"},
	{"006:HB7", "R", "HB7", EncFlags, 0, 1, "", "transfer-enabled: param 7"},
	{"006:LB0", "R", "LB0", EncFlags, 0, 1, "", "read/write: DHW setpoint"},
	{"006:LB1", "R", "LB1", EncFlags, 0, 1, "", "read/write: max. CH setpoint"},
	{"006:LB2", "R", "LB2", EncFlags, 0, 1, "", "read/write: param 2 (OTC HC ratio)"},
	{"006:LB3", "R", "LB3", EncFlags, 0, 1, "", "read/write: param 3"},
	{"006:LB4", "R", "LB4", EncFlags, 0, 1, "", "read/write: param 4"},
	{"006:LB5", "R", "LB5", EncFlags, 0, 1, "", "read/write: param 5"},
	{"006:LB6", "R", "LB6", EncFlags, 0, 1, "", "read/write: param 6"},
	{"006:LB7", "R", "LB7", EncFlags, 0, 1, "", "read/write: param 7"},
	{"007", "W", "", EncF88, 0, 100, "%", "Cooling control signal"},
	{"008", "W", "", EncF88, 0, 100, "°C", "Control Setpoint for 2nd CH circuit"},
	{"009", "R", "", EncF88, 0, 30, "", "Remote override room Setpoint"}, // 0 means no override
	{"010", "R", "8-15", EncU8, 0, 255, "", "Number of Transparent-Slave-Parameters supported by slave"},
	{"011", "RW", "", EncNone, 0, 0, "", "Index/Value of transparent slave parameter"},
	{"011R", "R", "", EncFlags, 0, 9, "", "Transparent slave parameter"},
	{"011R:HB", "R", "8-15", EncU8, 0, 255, "", "Index of read transparent slave parameter"},
	{"011R:LB", "R", "0-7", EncU8, 0, 255, "", "Value of read transparent slave parameter"},
	{"011W", "W", "", EncFlags, 0, 1, "", "Transparent slave parameter to write"},
	{"011W:HB", "W", "8-15", EncU8, 0, 255, "", "Index of referred-to transparent slave parameter to write"},
	{"011W:LB", "W", "0-7", EncU8, 0, 255, "", "Value of referred-to transparent slave parameter to write"},
	{"012", "R", "8-15", EncU8, 0, 255, "", "Size of Fault-History-Buffer supported by slave"},
	{"013", "R", "", EncFlags, 0, 1, "", "Fault-history buffer entry"},
	{"013:HB", "R", "8-15", EncU8, 0, 255, "", "Index number"},
	{"013:LB", "R", "0-7", EncU8, 0, 255, "", "Entry Value"},
	{"014", "W", "", EncF88, 0, 100, "", "Maximum relative modulation level setting (%)"},
	{"015", "R", "", EncFlags, 0, 0, "", "Boiler capacities"},
	{"015:HB", "R", "8-15", EncU8, 0, 255, "kW", "Maximum boiler capacity"},
	{"015:LB", "R", "0-7", EncU8, 0, 100, "%", "Minimum boiler modulation level"},
	{"016", "W", "", EncF88, -40, 127, "°C", "Room Setpoint"},
	{"017", "R", "", EncF88, 0, 100, "%", "Relative Modulation Level"},
	{"018", "R", "", EncF88, 0, 5, "bar", "Water pressure in CH circuit"},
	{"019", "R", "", EncF88, 0, 16, "l/min", "Water flow rate in DHW circuit"},
	{"020", "RW", "", EncNone, 0, 0, "", "Time and DoW"},
	{"020R", "R", "", EncFlags, 0, 0, "", ""},
	{"020R:HB0", "R", "13-15", EncU8, 0, 7, "", "Day of Week"},
	{"020R:HB1", "R", "8-12", EncU8, 0, 23, "", "Hours"},
	{"020R:LB", "R", "0-7", EncU8, 0, 59, "", "Minutes"},
	{"020W", "W", "", EncNone, 0, 0, "", "Day of Week and Time of Day"},
	{"020W:HB0", "W", "13-15", EncU8, 0, 7, "", "Day of Week"},
	{"020W:HB1", "W", "8-12", EncU8, 0, 23, "", "Hours"},
	{"020W:LB", "W", "0-7", EncU8, 0, 59, "", "Minutes"},
	{"021", "RW", "", EncNone, 0, 0, "", "Calendar date"},
	{"021R", "R", "", EncFlags, 0, 0, "", "Calendar date"},
	{"021R:HB", "R", "8-15", EncU8, 1, 12, "", "Month"},
	{"021R:LB", "R", "0-7", EncU8, 1, 31, "", "Day"},
	{"021W", "W", "", EncFlags, 0, 0, "", ""},
	{"021W:HB", "W", "8-15", EncU8, 1, 12, "", "Month"},
	{"021W:LB", "W", "0-7", EncU8, 1, 31, "", "Day"},
	{"022", "RW", "", EncNone, 0, 0, "", "Calendar year"},
	{"022R", "R", "", EncU16, 0, 65535, "", "Year"},
	{"022W", "W", "", EncU16, 0, 65535, "", "Year"},
	{"023", "W", "", EncF88, -40, 127, "°C", "Room Setpoint for 2nd CH circuit"},
	{"024", "W", "", EncF88, -40, 127, "°C", "Room temperature (°C)"},
	{"025", "R", "", EncF88, -40, 127, "°C", "Boiler flow water temperature"},
	{"026", "R", "", EncF88, -40, 127, "°C", "DHW temperature"},
	{"027", "R", "", EncF88, -40, 127, "°C", "Outside temperature"},
	{"028", "R", "", EncF88, -40, 127, "°C", "Return water temperature"},
	{"029", "R", "", EncF88, -40, 127, "°C", "Solar storage temperature"},
	{"030", "R", "", EncS16, -40, 250, "°C", "Solar collector temperature"},
	{"031", "R", "", EncF88, -40, 127, "°C", "Flow water temperature CH2 circuit"},
	{"032", "R", "", EncF88, -40, 127, "°C", "Domestic hot water temperature 2"},
	{"033", "R", "", EncS16, -40, 500, "°C", "Boiler exhaust temperature"},
	{"034", "R", "", EncF88, -40, 127, "°C", "Boiler heat exchanger temperature"},
	{"035", "R", "", EncU16, 0, 0, "", "Boiler fan speed setpoint"}, // possibly split HB setpoint / LB actual
	{"036", "R", "", EncF88, -128, 127, "µA", "Electrical current through burner flame"},
	{"037", "W", "", EncF88, -40, 127, "°C", "Room temperature for 2nd CH circuit"},
	{"038", "W", "", EncF88, 0, 0, "%", "Relative Humidity"},
	{"048", "R", "", EncFlags, 0, 0, "", "DHW Setpoint bounds for adjustment"},
	{"048:HB", "R", "8-15", EncS8, 0, 127, "°C", "Upper bound"},
	{"048:LB", "R", "0-7", EncS8, 0, 127, "°C", "Lower bound"},
	{"049", "R", "", EncFlags, 0, 0, "°C", "Max CH water Setpoint bounds for adjustment"},
	{"049:HB", "R", "8-15", EncS8, 0, 127, "°C", "Upper bound"},
	{"049:LB", "R", "0-7", EncS8, 0, 127, "°C", "Lower bound"},
	{"050", "R", "", EncFlags, 0, 0, "", "OTC HC-Ratio bounds"},
	{"050:HB", "R", "8-15", EncS8, -128, 127, "", "Upper bound"},
	{"050:LB", "R", "0-7", EncS8, -128, 127, "", "Lower bound"},
	{"051", "R", "", EncFlags, 0, 0, "", "Remote param 3"},
	{"051:HB", "R", "8-15", EncS8, -128, 127, "", "Upper bound"},
	{"051:LB", "R", "0-7", EncS8, -128, 127, "", "Lower bound"},
	{"052", "R", "", EncFlags, 0, 0, "", "Remote param 4"},
	{"052:HB", "R", "8-15", EncS8, -128, 127, "", "Upper bound"},
	{"052:LB", "R", "0-7", EncS8, -128, 127, "", "Lower bound"},
	{"053", "R", "", EncFlags, 0, 0, "", "Remote param 5"},
	{"053:HB", "R", "8-15", EncS8, -128, 127, "", "Upper bound"},
	{"053:LB", "R", "0-7", EncS8, -128, 127, "", "Lower bound"},
	{"054", "R", "", EncFlags, 0, 0, "", "Remote param 6"},
	{"054:HB", "R", "8-15", EncS8, -128, 127, "", "Upper bound"},
	{"054:LB", "R", "0-7", EncS8, -128, 127, "", "Lower bound"},
	{"055", "R", "", EncFlags, 0, 0, "", "Remote param 7"},
	{"055:HB", "R", "8-15", EncS8, -128, 127, "", "Upper bound"},
	{"055:LB", "R", "0-7", EncS8, -128, 127, "", "Lower bound"},
	{"056", "RW", "", EncNone, 0, 0, "°C", "DHW Setpoint (Remote param 0)"},
	{"056R", "R", "", EncF88, 0, 127, "°C", "Current DHW Setpoint (Remote param 0)"},
	{"056W", "W", "", EncF88, 0, 127, "°C", "DHW Setpoint to set(Remote param 0)"},
	{"057", "RW", "", EncNone, 0, 0, "°C", "Max CH water Setpoint (Remote param 1)"},
	{"057R", "R", "", EncF88, 0, 127, "°C", "Current Max CH water Setpoint (Remote param 1)"},
	{"057W", "W", "", EncF88, 0, 127, "°C", "Max CH water Setpoint to set (Remote param 1)"},
	{"058", "RW", "", EncNone, 0, 0, "°C", "OTC HC Ratio (Remote param 2)"},
	{"058R", "R", "", EncF88, 0, 127, "°C", "Current OTC HC Ratio (Remote param 2)"},
	{"058W", "W", "", EncF88, 0, 127, "°C", "OTC HC Ratio to set (Remote param 2)"},
	{"059", "RW", "", EncNone, 0, 0, "", "(Remote param 3)"},
	{"059R", "R", "", EncF88, 0, 127, "", "Current (Remote param 3)"},
	{"059W", "W", "", EncF88, 0, 127, "", "to set (Remote param 3)"},
	{"060", "RW", "", EncNone, 0, 0, "", "(Remote param 4)"},
	{"060R", "R", "", EncF88, 0, 127, "", "Current (Remote param 4)"},
	{"060W", "W", "", EncF88, 0, 127, "", "to set (Remote param 4)"},
	{"061", "RW", "", EncNone, 0, 0, "", "(Remote param 5)"},
	{"061R", "R", "", EncF88, 0, 127, "", "Current (Remote param 5)"},
	{"061W", "W", "", EncF88, 0, 127, "", "to set (Remote param 5)"},
	{"062", "RW", "", EncNone, 0, 0, "", "(Remote param 6)"},
	{"062R", "R", "", EncF88, 0, 127, "", "Current (Remote param 6)"},
	{"062W", "W", "", EncF88, 0, 127, "", "to set (Remote param 6)"},
	{"063", "RW", "", EncNone, 0, 0, "", "(Remote param 7)"},
	{"063R", "R", "", EncF88, 0, 127, "", "Current (Remote param 7)"},
	{"063W", "W", "", EncF88, 0, 127, "", "to set (Remote param 7)"},
	{"070", "R", "", EncFlags, 0, 0, "", "Status ventilation / heat-recovery"},
	{"070:HB0", "R", "HB0", EncFlags, 0, 1, "", "Master status ventilation / heat-recovery: Ventilation enable"},
	{"070:HB1", "R", "HB1", EncFlags, 0, 1, "", "Master status ventilation / heat-recovery: Bypass postion"},
	{"070:HB2", "R", "HB2", EncFlags, 0, 1, "", "Master status ventilation / heat-recovery: Bypass mode"},
	{"070:HB3", "R", "HB3", EncFlags, 0, 1, "", "Master status ventilation / heat-recovery: Free ventilation mode"},
	{"070:LB0", "R", "LB0", EncFlags, 0, 1, "", "Slave status ventilation / heat-recovery: Fault indication"},
	{"070:LB1", "R", "LB1", EncFlags, 0, 1, "", "Slave status ventilation / heat-recovery: Ventilation mode"},
	{"070:LB2", "R", "LB2", EncFlags, 0, 1, "", "Slave status ventilation / heat-recovery: Bypass status"},
	{"070:LB3", "R", "LB3", EncFlags, 0, 1, "", "Slave status ventilation / heat-recovery: Bypass automatic status"},
	{"070:LB4", "R", "LB4", EncFlags, 0, 1, "", "Slave status ventilation / heat-recovery: Free ventilation status"},
	{"070:LB6", "R", "LB6", EncFlags, 0, 1, "", "Slave status ventilation / heat-recovery: Diagnostic indication"},
	{"071", "R", "", EncNone, 0, 0, "", "Relative ventilation position (0-100%). 0% is the minimum set ventilation and 100% is the maximum set ventilation"},
	{"072", "R", "", EncNone, 0, 0, "", "Application-specific fault flags and OEM fault code ventilation / heat-recovery"},
	{"073", "R", "", EncNone, 0, 0, "", "An OEM-specific diagnostic/service code for ventilation / heat-recovery system"},
	{"074", "R", "", EncFlags, 0, 1, "", "Slave Configuration ventilation / heat-recovery"},
	{"074:HB0", "R", "HB0", EncFlags, 0, 1, "", "Ventilation enabled"},
	{"074:HB1", "R", "HB1", EncFlags, 0, 1, "", "Bypass position"},
	{"074:HB2", "R", "HB2", EncFlags, 0, 1, "", "Bypass mode"},
	{"074:HB3", "R", "HB3", EncFlags, 0, 1, "", "Speed control"},
	{"074:LB", "R", "0-7", EncU8, 0, 255, "", "Slave MemberID Code ventilation / heat-recovery"},
	// ventilation and solar ids below are only loosely documented
	{"075", "R", "", EncU16, 0, 0, "", "The implemented version of the OpenTherm Protocol Specification in the ventilation / heat-recovery system"},
	{"076", "R", "", EncU16, 0, 0, "", "Ventilation / heat-recovery product version number and type"},
	{"077", "R", "", EncU16, 0, 100, "%", "Relative ventilation"},
	{"078", "R", "", EncU16, 0, 100, "%", "Relative humidity exhaust air"},
	{"079", "R", "", EncU16, 0, 2000, "ppm", "CO2 level exhaust air"},
	{"080", "R", "", EncU16, 0, 0, "°C", "Supply inlet temperature"},
	{"081", "R", "", EncU16, 0, 0, "°C", "Supply outlet temperature"},
	{"082", "R", "", EncU16, 0, 0, "°C", "mExhaust inlet temperature"},
	{"083", "R", "", EncU16, 0, 0, "°C", "Exhaust outlet temperature"},
	{"084", "R", "", EncU16, 0, 0, "rpm", "Exhaust fan speed"},
	{"085", "R", "", EncU16, 0, 0, "rpm", "Supply fan speed"},
	{"086", "R", "", EncFlags, 0, 0, "", "Remote ventilation / heat-recovery parameter:"},
	{"086:HB0", "R", "HB0", EncFlags, 0, 0, "", "Transfer-enable: Nominal ventilation value"},
	{"086:LB0", "R", "LB0", EncFlags, 0, 0, "", "Read/write : Nominal ventilation value"},
	{"087", "R", "", EncU16, 0, 100, "%", "Nominal relative value for ventilation"},
	{"088", "R", "", EncU16, 0, 255, "", "Number of Transparent-Slave-Parameters supported by TSP’s ventilation / heat-recovery"},
	{"089", "R", "", EncU16, 0, 255, "", "Index number / Value of referred-to transparent TSP’s ventilation / heat-recovery parameter"},
	{"090", "R", "", EncU16, 0, 255, "", "Size of Fault-History-Buffer supported by ventilation / heat-recovery"},
	{"091", "R", "", EncU16, 0, 255, "", "Index number / Value of referred-to fault-history buffer entry ventilation / heat-recovery"},
	// from https://www.opentherm.eu/request-details/?post_ids=3931
	{"093", "R", "", EncU16, 0, 65535, "", "Brand Index / Slave Brand name"},
	{"094", "R", "", EncU16, 0, 65535, "", "Brand Version Index / Slave product type/version"},
	{"095", "R", "", EncU16, 0, 65535, "", "Brand Serial Number index / Slave product serialnumber"},
	{"098", "R", "", EncU16, 0, 255, "", "For a specific RF sensor the RF strength and battery level is written"},
	{"099", "R", "", EncU16, 0, 255, "", "Operating Mode HC1, HC2/ Operating Mode DHW"},
	{"100", "R", "", EncU16, 0, 255, "", "Function of manual and program changes in master and remote room Setpoint"},
	{"101", "R", "", EncFlags, 0, 0, "", "Solar Storage:"},
	{"101:HB", "R", "8-10", EncU8, 0, 0, "", "Master Solar Storage: Solar mode"},
	{"101:LB0", "R", "LB0", EncFlags, 0, 0, "", "Slave Solar Storage: Fault indication"},
	{"101:LB1", "R", "1-3", EncU8, 0, 7, "", "Slave Solar Storage: Solar mode status"},
	{"101:LB2", "R", "4-5", EncU8, 0, 3, "", "Slave Solar Storage: Solar status"},
	{"102", "R", "", EncNone, 0, 0, "", "Application-specific fault flags and OEM fault code Solar Storage"},
	{"103", "R", "", EncFlags, 0, 0, "", "Slave Configuration Solar Storage"},
	{"103:HB0", "R", "HB0", EncFlags, 0, 0, "", "System type"},
	{"103:LB", "R", "0-7", EncU8, 0, 255, "", "Slave MemberID"},
	{"104", "R", "", EncU16, 0, 255, "", "Solar Storage product version number and type"},
	{"105", "R", "", EncU16, 0, 255, "", "Number of Transparent-Slave-Parameters supported by TSP’s Solar Storage"},
	{"106", "R", "", EncU16, 0, 255, "", "Index number / Value of referred-to transparent TSP’s Solar Storage parameter"},
	{"107", "R", "", EncU16, 0, 255, "", "Size of Fault-History-Buffer supported by Solar Storage"},
	{"108", "R", "", EncU16, 0, 255, "", "Index number / Value of referred-to fault-history buffer entry Solar Stor"},
	{"109", "R", "", EncU16, 0, 255, "", "Electricity producer starts"},
	{"110", "R", "", EncU16, 0, 255, "", "Electricity producer hours"},
	{"111", "R", "", EncU16, 0, 255, "", "Electricity production"},
	{"112", "R", "", EncU16, 0, 255, "", "Cumulativ Electricity production"},
	{"113", "R", "", EncU16, 0, 255, "", "Number of un-successful burner starts"},
	{"114", "R", "", EncU16, 0, 255, "", "Number of times flame signal was too low"},
	{"115", "R", "", EncU16, 0, 255, "", "OEM-specific diagnostic/service code"},
	// counters 116-123 are writable with 0 to reset
	{"116", "R", "", EncU16, 0, 65535, "", "Number of succesful starts burner"},
	{"117", "R", "", EncU16, 0, 65535, "", "Number of starts CH pump"},
	{"118", "R", "", EncU16, 0, 65535, "", "Number of starts DHW pump/valve"},
	{"119", "R", "", EncU16, 0, 65535, "", "Number of starts burner during DHW mode"},
	{"120", "R", "", EncU16, 0, 65535, "", "Number of hours that burner is in operation (i.e. flame on)"},
	{"121", "R", "", EncU16, 0, 65535, "", "Number of hours that CH pump has been running"},
	{"122", "R", "", EncU16, 0, 65535, "", "Number of hours that DHW pump has been running or DHW valve has been opened"},
	{"123", "R", "", EncU16, 0, 65535, "", "Number of hours that burner is in operation during DHW mode"},
	{"124", "W", "", EncF88, 1, 127, "", "The implemented version of the OpenTherm Protocol Specification in the master"},
	{"125", "R", "", EncF88, 1, 127, "", "The implemented version of the OpenTherm Protocol Specification in the slave"},
	{"126", "W", "", EncFlags, 0, 0, "", "Master product version number and type"},
	{"126:HB", "W", "8-15", EncU8, 0, 255, "", "Master product version number and type"},
	{"126:LB", "W", "0-7", EncU8, 0, 255, "", "Master product version number and type"},
	{"127", "R", "", EncFlags, 0, 0, "", "Slave product version number and type"},
	{"127:HB", "R", "8-15", EncU8, 0, 255, "", "Slave product version number and type"},
	{"127:LB", "R", "0-7", EncU8, 0, 255, "", "Slave product version number and type"},
	// BAXI EcoFour ids answered by the boiler but absent from the spec
	{"129", "R", "", EncU16, 0, 65535, "", "BAXI data-id 129"},
	{"130", "R", "", EncU16, 0, 65535, "", "BAXI data-id 130"},
	{"149", "R", "", EncU16, 0, 65535, "", "BAXI data-id 149"},
	{"150", "R", "", EncU16, 0, 65535, "", "BAXI data-id 150"},
	{"151", "R", "", EncU16, 0, 65535, "", "BAXI data-id 151"},
	{"173", "R", "", EncU16, 0, 65535, "", "BAXI data-id 173"},
	{"198", "R", "", EncU16, 0, 65535, "", "BAXI data-id 198"},
	{"199", "R", "", EncU16, 0, 65535, "", "BAXI data-id 199"},
	{"200", "R", "", EncU16, 0, 65535, "", "BAXI data-id 200"},
	{"202", "R", "", EncU16, 0, 65535, "", "BAXI data-id 202"},
	{"203", "R", "", EncU16, 0, 65535, "", "BAXI data-id 203"},
	{"204", "R", "", EncU16, 0, 65535, "", "BAXI data-id 204"},
	{"209", "R", "", EncU16, 0, 65535, "", "BAXI data-id 209"},
}
