package main

import "github.com/dzjyyds666/asttab/cmd"

func main() {
	cmd.Execute()
}
