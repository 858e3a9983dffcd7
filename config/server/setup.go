package server

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"videotube/internal"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

var (
	DbDriverName       string
	DbConnectionString string
	ServerAddress      string

	AccessTokenSecret  string
	RefreshTokenSecret string

	StorageAccessKey string
	StorageSecretKey string
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env не найден, используются переменные окружения процесса")
	}

	DbDriverName = os.Getenv("DATABASE_DRIVER")
	DbConnectionString = os.Getenv("DATABASE_CONNECTION_URL")
	ServerAddress = os.Getenv("SERVER_ADDRESS")

	AccessTokenSecret = os.Getenv("ACCESS_TOKEN_SECRET")
	RefreshTokenSecret = os.Getenv("REFRESH_TOKEN_SECRET")

	StorageAccessKey = os.Getenv("STORAGE_ACCESS_KEY")
	StorageSecretKey = os.Getenv("STORAGE_SECRET_KEY")
}

func SetupDatabase() (*internal.Database, error) {
	database, err := internal.NewDatabaseConnection(DbDriverName, DbConnectionString)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения: %w", err)
	}
	return database, nil
}

func SetupServer() (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    ServerAddress,
		Handler: router,
	}

	return server, router
}
