package main

import "github.com/jmartin-dev/dirsearch-go/cmd"

func main() {
	cmd.Execute()
}
