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
		fmt.Println("Usage: toimage <audio_file>")
		os.Exit(1)
	}

	var filename = os.Args[1]
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".wav" && ext != ".flac" {
		filename += ".wav"
	}

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

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	name, err := c.EncodeFile(context.Background(), filename, base, codec.FileOptions{Sidecar: true})
	if err != nil {
		fmt.Printf("Error generating spectrogram: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(name)
}
