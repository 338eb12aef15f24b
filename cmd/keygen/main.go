package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
)

func main() {
	hexLen := flag.Int("hex-len", 64, "random hex length (must be even)")
	flag.Parse()

	if err := validateHexLen(*hexLen); err != nil {
		log.Fatal(err)
	}

	cardKey, jwtSecret, err := buildSecrets(*hexLen)
	if err != nil {
		log.Fatalf("failed to generate secrets: %v", err)
	}

	fmt.Println("Generated server secrets")
	fmt.Printf("CARD_ENCRYPTION_KEY=%s\n", cardKey)
	fmt.Printf("JWT_SECRET=%s\n", jwtSecret)
}

func validateHexLen(n int) error {
	if n <= 0 || n%2 != 0 {
		return fmt.Errorf("invalid hex-len: %d (must be positive and even)", n)
	}
	return nil
}

func buildSecrets(hexLen int) (string, string, error) {
	cardKey, err := generateRandomHex(hexLen)
	if err != nil {
		return "", "", err
	}
	jwtSecret, err := generateRandomHex(hexLen)
	if err != nil {
		return "", "", err
	}
	return cardKey, jwtSecret, nil
}

func generateRandomHex(n int) (string, error) {
	b := make([]byte, n/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
