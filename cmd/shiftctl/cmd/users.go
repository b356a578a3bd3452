package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wardshift/backend/internal/models"
	"gorm.io/gorm"
)

var flagUserRole string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersPromoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.UserRole(strings.ToUpper(flagUserRole))
		if !role.Valid() {
			return fmt.Errorf("invalid role %q, expected ADMIN, MANAGER or NURSE", flagUserRole)
		}

		var user models.User
		if err := db.Where("email = ?", strings.ToLower(args[0])).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("no user with email %q", args[0])
			}
			return fmt.Errorf("looking up user: %w", err)
		}

		if err := db.Model(&user).Update("role", role).Error; err != nil {
			return fmt.Errorf("updating role: %w", err)
		}
		fmt.Printf("User %s is now %s\n", user.Email, role)
		return nil
	},
}

func init() {
	usersPromoteCmd.Flags().StringVar(&flagUserRole, "role", "", "Target role: ADMIN, MANAGER, NURSE")
	_ = usersPromoteCmd.MarkFlagRequired("role")

	usersCmd.AddCommand(usersPromoteCmd)
	rootCmd.AddCommand(usersCmd)
}
