package main

import "github.com/vietddude/occload/internal/cli"

func main() {
	cli.Execute()
}
