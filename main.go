package main

import "github.com/saleshq/calapi/cmd"

func main() {
	cmd.Execute()
}
