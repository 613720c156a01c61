package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
)

var (
	adminName  string
	adminEmail string
)

var adminCmd = &cobra.Command{
	Use:   "admin --email <email>",
	Short: "Create a SuperAdmin account or reset its password",
	Long: `Connects to the database named by DB_URI and DB_NAME and makes sure a
SuperAdmin with the given email exists, is active and has the password read
from CASECTL_ADMIN_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: runAdmin,
}

func init() {
	adminCmd.Flags().StringVar(&adminEmail, "email", "", "email of the account")
	adminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name used when the account is created")
	_ = adminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(adminCmd)
}

func runAdmin(cmd *cobra.Command, _ []string) error {
	password := os.Getenv("CASECTL_ADMIN_PASSWORD")
	if len(password) < 8 {
		return errors.New("CASECTL_ADMIN_PASSWORD must hold at least 8 characters")
	}

	conf := config.New()
	client, err := databases.NewClient(conf)
	if err != nil {
		return fmt.Errorf("failed to create database client: %w", err)
	}
	if err := client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	defer func() { _ = client.Disconnect(ctx) }()

	created, err := ensureAdmin(ctx, databases.NewUserDatabase(databases.NewDatabase(conf, client)), adminName, adminEmail, password, time.Now())
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "created SuperAdmin %s\n", strings.ToLower(adminEmail))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "reset SuperAdmin %s\n", strings.ToLower(adminEmail))
	}
	return nil
}

// ensureAdmin creates the account, or promotes, activates and resets the
// password of an existing one. It reports whether the account was created.
func ensureAdmin(ctx context.Context, db databases.UserDatabase, name, email, password string, now time.Time) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	stamp := primitive.NewDateTimeFromTime(now)

	existing, err := db.FindOne(ctx, bson.M{"user.email": email})
	switch {
	case err == nil:
		err = db.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": bson.M{
			"user.password":  string(hashedPassword),
			"user.role":      models.RoleSuperAdmin,
			"user.active":    true,
			"user.updatedAt": stamp,
		}})
		if err != nil {
			return false, fmt.Errorf("failed to update %s: %w", email, err)
		}
		return false, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		_, err = db.InsertOne(ctx, models.User{
			ID: primitive.NewObjectID(),
			Details: models.UserDetails{
				Name:      name,
				Email:     email,
				Password:  string(hashedPassword),
				Role:      models.RoleSuperAdmin,
				Active:    true,
				CreatedAt: stamp,
				UpdatedAt: stamp,
			},
		})
		if err != nil {
			return false, fmt.Errorf("failed to create %s: %w", email, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up %s: %w", email, err)
	}
}
