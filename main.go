package main

import (
	"fmt"
	"log"
	"os"

	"silayan/pkg/notify"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load ./.env if present before reading vars; never overrides vars that
	// are already set.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}

	// Lightweight migrate command: `./silayan migrate` runs AutoMigrate and
	// seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	db := initDB()
	srv := NewServer(db, buildWhatsAppDispatcher(), buildEmailDispatcher(), []byte(secret))

	r := gin.Default()

	setupRoutes(r, srv)

	r.Run(":8081")
}

// buildWhatsAppDispatcher wires Twilio if configured, otherwise a disabled
// dispatcher so attempts still land in the audit trail.
func buildWhatsAppDispatcher() notify.Dispatcher {
	from := os.Getenv("TWILIO_WHATSAPP_NUMBER")
	if from == "" || os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		log.Println("WhatsApp dispatcher disabled: TWILIO_WHATSAPP_NUMBER/TWILIO_ACCOUNT_SID not set")
		return notify.Disabled{Channel: "WHATSAPP", Reason: "twilio not configured"}
	}
	return notify.NewWhatsAppDispatcher(from)
}

// buildEmailDispatcher wires SMTP if configured, otherwise a disabled
// dispatcher.
func buildEmailDispatcher() notify.Dispatcher {
	host := os.Getenv("SMTP_HOST")
	from := os.Getenv("SMTP_FROM")
	if host == "" || from == "" {
		log.Println("email dispatcher disabled: SMTP_HOST/SMTP_FROM not set")
		return notify.Disabled{Channel: "EMAIL", Reason: "smtp not configured"}
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return notify.NewEmailDispatcher(host, port, from, os.Getenv("SMTP_PASSWORD"))
}
