package main

import "ccreport/cmd"

func main() {
	cmd.Execute()
}
