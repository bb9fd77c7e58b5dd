package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurlang/gospectro/codec"
	"github.com/neurlang/gospectro/config"
)

func main() {
	// Check if the filename argument is provided
	if len(os.Args) < 2 {
		fmt.Println("Usage: towav <image_file>")
		os.Exit(1)
	}

	var filename = os.Args[1]

	cfg, _, err := config.Load(config.DefaultFileName)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	c, err := codec.New(*cfg)
	if err != nil {
		fmt.Printf("Error creating codec: %v\n", err)
		os.Exit(1)
	}

	outputFile := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".wav"
	if err := c.DecodeFile(context.Background(), filename, outputFile); err != nil {
		fmt.Printf("Error generating wave from spectrogram: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(outputFile)
}
