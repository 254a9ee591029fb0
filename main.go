package main

import "github.com/iksnae/msgr/cmd"

func main() {
	cmd.Execute()
}
