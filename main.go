// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/nmerlino/cityscout/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
