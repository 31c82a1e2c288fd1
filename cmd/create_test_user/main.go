// Command create_test_user prints a signed init-data envelope (and a
// session token when JWT_SECRET is set) for exercising the API locally.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"trashcash_webapp/internal/initdata"
	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	id := flag.Int64("id", 1234567890, "user id")
	first := flag.String("first", "Tester", "first name")
	last := flag.String("last", "", "last name")
	flag.Parse()

	secret := os.Getenv("MAX_SECRET_KEY")
	if secret == "" {
		logger.Fatal("MAX_SECRET_KEY not set")
	}

	data, err := json.Marshal(initdata.Payload{User: initdata.User{ID: *id, FirstName: *first, LastName: *last}})
	if err != nil {
		logger.Fatal("marshal payload", "error", err)
	}

	envelope := initdata.Envelope(string(data), secret)
	if _, err := initdata.Validate(envelope, secret); err != nil {
		logger.Fatal("generated envelope does not validate", "error", err)
	}
	fmt.Println("X-Init-Data:", envelope)

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		token, err := service.NewSessionIssuer(jwtSecret, 0).Issue(*id)
		if err != nil {
			logger.Fatal("issue token", "error", err)
		}
		fmt.Println("Authorization: Bearer", token)
	}
}
