package main

import "github.com/apex-racing/grcup-analytics/cmd"

func main() {
	cmd.Execute()
}
