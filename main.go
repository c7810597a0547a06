package main

import "github.com/user/hanscan/cmd"

func main() {
	cmd.Execute()
}
