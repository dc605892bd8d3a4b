package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBDriver     string
	DBHost       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBPort       string
	DBPath       string
	Port         string
	AppAuthKey   string
	AppEncKey    string
	CSRFKey      string
	APIKey       string
	AppTimezone  string
	APP_ENV      string
	PhoneRegion  string
	StoreName    string
	StoreAddress string
	StorePhone   string
	LogLevel     string
	LogFormat    string
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	defaultAPIKey = "dev-secret-change-me"
)

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBDriver:     getEnv("DB_DRIVER", DriverSQLite),
		DBHost:       getEnv("DB_HOST", "127.0.0.1"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       getEnv("DB_NAME", "mini_pos"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBPath:       getEnv("DB_PATH", "mini_pos.db"),
		Port:         getEnv("APP_PORT", ":8080"),
		AppAuthKey:   os.Getenv("APP_AUTH_KEY"),
		AppEncKey:    os.Getenv("APP_ENC_KEY"),
		CSRFKey:      os.Getenv("CSRF_KEY"),
		APIKey:       getEnv("MINI_POS_API_KEY", defaultAPIKey),
		AppTimezone:  getEnv("APP_TIMEZONE", "Local"),
		APP_ENV:      getEnv("APP_ENV", "development"),
		PhoneRegion:  getEnv("PHONE_REGION", "ID"),
		StoreName:    getEnv("STORE_NAME", "MINI POS"),
		StoreAddress: getEnv("STORE_ADDRESS", "Jl. Contoh No. 123"),
		StorePhone:   getEnv("STORE_PHONE", "0812-3456-7890"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (e ENV) IsProduction() bool {
	return e.APP_ENV == "production"
}

// Location resolves APP_TIMEZONE, falling back to the process local zone.
func (e ENV) Location() *time.Location {
	if e.AppTimezone == "" || e.AppTimezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(e.AppTimezone)
	if err != nil {
		log.Printf("Location: unknown APP_TIMEZONE %q, using local time: %v", e.AppTimezone, err)
		return time.Local
	}
	return loc
}

var LoadENV = LoadEnv()
