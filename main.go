package main

import "homophone_dict/cmd"

func main() {
	cmd.Execute()
}
