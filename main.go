package main

import "github.com/simivar/sprite-picker/src/cmd"

func main() {
	cmd.Execute()
}
