// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp390_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/hpastation/bmp390"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	d, err := bmp390.NewI2C(b, bmp390.DefaultAddress, nil)
	if err != nil {
		log.Fatalf("failed to initialize bmp390: %v", err)
	}
	m, err := d.Read()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.1f hPa %.1f°C\n", m.Pressure/100, m.Temperature)
}
