package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/daniilabradorr/diaflow/internal/config"
)

func main() {
	fmt.Println("🔍 Comprobando configuración...")

	// Cargamos el .env si existe
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  fichero .env no encontrado: %v\n", err)
	}

	// Cargamos y validamos la configuración
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Error de validación de configuración:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ ¡Configuración válida!")
	fmt.Printf("📋 Detalles:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - API URL: %s\n", cfg.APIBaseURL)
	fmt.Printf("  - Redis Host: %s\n", orUnset(cfg.Redis.Host))
	fmt.Printf("  - Redis Port: %s\n", cfg.Redis.Port)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<sin definir>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func orUnset(value string) string {
	if value == "" {
		return "<sin definir> (se usará la sesión en memoria)"
	}
	return value
}
