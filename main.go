package main

import "qed42.com/waid/cmd"

func main() {
	cmd.Execute()
}
