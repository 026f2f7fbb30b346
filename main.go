// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Calorimeter - Nevoton OpenTherm Explorer
//
// A CLI tool for reading, writing and scanning OpenTherm heating
// appliances through a Nevoton BCG-10.x gateway, and for monitoring
// OpenTherm eavesdrop feeds in human-readable format.

package main

import (
	"os"

	"github.com/Thermoquad/calorimeter/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
