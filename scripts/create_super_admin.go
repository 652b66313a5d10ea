package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/models"
)

// Creates the first Super Admin. Every later account is created through the API.
// Usage: go run scripts/create_super_admin.go <email> <username> <password>
func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run scripts/create_super_admin.go <email> <username> <password>")
		fmt.Println("Example: go run scripts/create_super_admin.go admin@cybermitra.in admin 0i2rinbcp12yc31h")
		os.Exit(1)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	username := strings.TrimSpace(os.Args[2])
	password := os.Args[3]
	if len(password) < 8 {
		fmt.Println("Password must be at least 8 characters")
		os.Exit(1)
	}

	conf := config.New()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := databases.NewClient(conf)
	if err != nil {
		fmt.Printf("Error creating database client: %v\n", err)
		os.Exit(1)
	}
	if err := client.Connect(ctx); err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := databases.NewUserDatabase(databases.NewDatabase(conf, client))
	n, err := users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		fmt.Printf("Error checking email: %v\n", err)
		os.Exit(1)
	}
	if n > 0 {
		fmt.Printf("A user with email %s already exists\n", email)
		os.Exit(1)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error generating hash: %v\n", err)
		os.Exit(1)
	}

	now := primitive.NewDateTimeFromTime(time.Now().UTC())
	id, err := users.InsertOne(ctx, models.User{
		Username:     username,
		Email:        email,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created Super Admin %s (%s)\n", email, id)
}
