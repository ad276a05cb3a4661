package main

import "github.com/facelogix/kiosk/cmd"

func main() {
	cmd.Execute()
}
