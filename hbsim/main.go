// Package main provides the hbsim command.
package main

import "github.com/sarchlab/hbsim/hbsim/cmd"

func main() {
	cmd.Execute()
}
