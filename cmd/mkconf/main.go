package main

import "github.com/goplus/mkconf/cmd/mkconf/internal"

func main() {
	internal.Execute()
}
