// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/plutotcool/release/cmd/release"

func main() {
	cmd.Execute()
}
