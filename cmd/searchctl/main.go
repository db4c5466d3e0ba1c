package main

import (
	"os"
)

func main() {
	a := newApp(os.Stdout)
	err := a.rootCmd().Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
