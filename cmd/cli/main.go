package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"modpocket/internal/client"
	"modpocket/internal/domain"
	"modpocket/internal/nusmods"
	"modpocket/internal/utility"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	baseURL := utility.Getenv("MODPOCKET_API_URL", defaultBaseURL)

	switch os.Args[1] {
	case "generate":
		if len(os.Args) < 3 || len(os.Args) > 6 {
			fmt.Fprintf(os.Stderr, "Usage: %s generate <share-url> [style] [theme] [aspect-ratio]\n", os.Args[0])
			os.Exit(1)
		}
		req := domain.GenerateReq{NusmodsURL: os.Args[2]}
		if len(os.Args) > 3 {
			req.DesignStyle = os.Args[3]
		}
		if len(os.Args) > 4 {
			req.Theme = os.Args[4]
		}
		if len(os.Args) > 5 {
			req.AspectRatio = os.Args[5]
		}
		generate(baseURL, req)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s <command> [arguments]\n", os.Args[0])
	fmt.Println("Generate a phone wallpaper from a NUSMods timetable share link.")
	fmt.Println("\nCommands:")
	fmt.Println("  generate <share-url> [style] [theme] [aspect-ratio]")
	fmt.Println("  help")
	fmt.Println("\nOptions:")
	fmt.Printf("  style         one of: %s (default %s)\n",
		strings.Join(domain.DesignStyleNames(), ", "), domain.DefaultDesignStyle)
	fmt.Printf("  theme         light or dark (default %s)\n", domain.DefaultTheme)
	fmt.Printf("  aspect-ratio  one of: %s (default %s)\n",
		strings.Join(domain.DeviceIDs(), ", "), domain.DefaultDeviceID)
	fmt.Println("\nEnvironment variables:")
	fmt.Printf("  MODPOCKET_API_URL  Base URL of the wallpaper service (default %s)\n", defaultBaseURL)
	fmt.Println("  MODPOCKET_OUTPUT   Output file (default wallpaper.png)")
}

// generate validates the link locally, then submits a single request.
// Local validation failures never reach the network.
func generate(baseURL string, req domain.GenerateReq) {
	if err := nusmods.ValidateShareLink(req.NusmodsURL); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	res, err := client.New(baseURL).Generate(context.Background(), req)
	if err != nil {
		log.Fatalf("%v", err)
	}

	out := utility.Getenv("MODPOCKET_OUTPUT", "wallpaper.png")
	if err := os.WriteFile(out, res.Image, 0o644); err != nil {
		log.Fatalf("failed to save wallpaper: %v", err)
	}
	fmt.Printf("Saved wallpaper to %s\n", out)
	fmt.Printf("Modules: %s\n", strings.Join(res.Modules, ", "))
}
