package main

import "github.com/fakeyudi/overcue/cmd"

func main() {
	cmd.Execute()
}
