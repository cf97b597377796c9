package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/insulin-uploader/internal/config"
)

func main() {
	fmt.Println("Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Note: .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration valid.")
	fmt.Printf("  - Port: %s\n", cfg.Port)
	fmt.Printf("  - AI provider: %s\n", cfg.AIProvider)
	fmt.Printf("  - OpenRouter key: %s\n", maskToken(cfg.OpenRouterAPIKey))
	fmt.Printf("  - Gemini key: %s\n", maskToken(cfg.GeminiAPIKey))
	fmt.Printf("  - Vision model: %s\n", cfg.VisionModel)
	fmt.Printf("  - Nightscout URL: %s\n", cfg.NightscoutURL)
	fmt.Printf("  - Nightscout token: %s\n", maskToken(cfg.NightscoutToken))
	fmt.Printf("  - Time zone: %s\n", cfg.Location)
	fmt.Printf("  - Auto confirm: %v\n", cfg.AutoConfirm)
	fmt.Printf("  - Request timeout: %s\n", cfg.RequestTimeout)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
