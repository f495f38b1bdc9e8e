package main

import (
	"os"

	"github.com/Aashish23092/ocr-phone-extractor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
