package main

import "github.com/jsphweid/mmlcodec/cmd"

func main() {
	cmd.Execute()
}
