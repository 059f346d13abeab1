package main

import "github.com/khanhnv2901/shredder/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
