package main

import (
	"log"

	"github.com/repofit/repofit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
