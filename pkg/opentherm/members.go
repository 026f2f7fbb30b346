// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

// memberNames maps OpenTherm member-id codes to manufacturer names.
// Collected from association lists and boiler observations; several
// codes are shared by rebranded products.
var memberNames = map[int]string{
	0:   "Unspecified",
	2:   "AWB",
	4:   "Multibrand", // Atag, Baxi Slim, Brötje, Elco
	5:   "Itho Daalderop",
	6:   "Daikin/Ideal",
	8:   "Biasi/Buderus/Logamax",
	9:   "Ferroli/Agpo",
	11:  "De Dietrich/Remeha/Baxi Prime",
	13:  "Cetetherm",
	16:  "Unical",
	18:  "Bosch",
	24:  "Vaillant/AWB/Bulex",
	27:  "Baxi",
	29:  "Daalderop/Itho",
	33:  "Viessmann",
	41:  "Radiant",
	56:  "Baxi Luna",
	131: "Netfit/Bosch",
	173: "Intergas",
}

// MemberName returns the manufacturer behind a member-id code
func MemberName(id int) string {
	if name, ok := memberNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}
