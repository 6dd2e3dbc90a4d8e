package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

var (
	initOrgName    string
	initOrgAcronym string
	initAdminUser  string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an organisation and its first admin account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLog()

		database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := context.Background()
		if err := db.Migrate(ctx, database); err != nil {
			return err
		}

		password, err := initOrganisation(ctx, database, initOrgName, initOrgAcronym, initAdminUser)
		if err != nil {
			return err
		}
		printInitResult(initOrgName, initAdminUser, password)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initOrgName, "org", "", "organisation name (required)")
	initCmd.Flags().StringVar(&initOrgAcronym, "acronym", "", "unique organisation acronym (required)")
	initCmd.Flags().StringVarP(&initAdminUser, "user", "u", "admin", "admin username")
	initCmd.MarkFlagRequired("org")
	initCmd.MarkFlagRequired("acronym")
}

// initOrganisation creates the organisation and an admin with a generated
// password in one transaction.
func initOrganisation(ctx context.Context, database *db.DB, name, acronym, adminUsername string) (string, error) {
	existing, err := store.GetOrganisationByAcronym(ctx, database, acronym)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", fmt.Errorf("organisation %q already exists", acronym)
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	err = database.InTx(ctx, func(tx *db.Tx) error {
		org, err := store.CreateOrganisation(ctx, tx, name, acronym)
		if err != nil {
			return err
		}
		_, err = store.CreateUser(ctx, tx, org.ID, adminUsername, "Administrator", string(hash), model.RoleAdmin)
		return err
	})
	if err != nil {
		return "", err
	}
	return password, nil
}

func printInitResult(org, username, password string) {
	fmt.Printf("Organisation created: %s\n", org)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
