package main

import "uart-shell/cmd"

func main() {
	cmd.Execute()
}
