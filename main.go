package main

import "sitebuild/cmd"

func main() {
	cmd.Execute()
}
