package env

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config enthält alle konfigurierbaren Werte der Anwendung, die über Umgebungsvariablen gesetzt werden können.
type Config struct {
	ServerAddr        string  // SERVER_ADDR – Adresse des HTTP-Servers (Standard: ":8081")
	DataSource        string  // DATA_SOURCE – "memory", "csv", "sqlite" oder "yaml" (Standard: "memory")
	DataPath          string  // DATA_PATH – Datenverzeichnis für csv, sqlite und yaml (Standard: "data")
	RateLimit         float64 // RATE_LIMIT – Erlaubte Anfragen pro Sekunde (Standard: 100)
	MaxPersons        int     // MAX_PERSONS – Max. Anzahl Personen im Speicher (Standard: 10000)
	PruneTagsOnAdd    bool    // PRUNE_TAGS_ON_ADD – ungenutzte Tags nach dem Hinzufügen entfernen (Standard: false)
	PruneTagsOnRemove bool    // PRUNE_TAGS_ON_REMOVE – ungenutzte Tags nach dem Entfernen entfernen (Standard: false)
	Autosave          bool    // AUTOSAVE – nach jeder Änderung speichern (Standard: true)
}

// MustLoad liest die Konfiguration aus Umgebungsvariablen. Eine vorhandene
// .env-Datei im Arbeitsverzeichnis wird vorher geladen; bereits gesetzte
// Variablen haben Vorrang.
func MustLoad() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("env: .env konnte nicht gelesen werden: " + err.Error())
	}
	return Config{
		ServerAddr:        getOr("SERVER_ADDR", ":8081"),
		DataSource:        getOr("DATA_SOURCE", "memory"),
		DataPath:          getOr("DATA_PATH", "data"),
		RateLimit:         getFloatOr("RATE_LIMIT", 100),
		MaxPersons:        getIntOr("MAX_PERSONS", 10_000),
		PruneTagsOnAdd:    getBoolOr("PRUNE_TAGS_ON_ADD", false),
		PruneTagsOnRemove: getBoolOr("PRUNE_TAGS_ON_REMOVE", false),
		Autosave:          getBoolOr("AUTOSAVE", true),
	}
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
