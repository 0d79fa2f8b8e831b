package main

import "github.com/nxtscape/linux-packager/cmd/linux-packager/cmd"

func main() {
	cmd.Execute()
}
