package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/service"
	"github.com/quizdeck/quizdeck/internal/store"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
		Long:  "Create, list, and disable administrators who manage content through the admin API.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminDisableCmd())

	return cmd
}

// openStore opens the configured database for a CLI command.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Database.Driver, cfg.Database.DSN)
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		username string
		email    string
		password string
		fullName string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin account",
		Example: `  quizdeck admin create --username alice --email alice@example.com --role admin
  quizdeck admin create --username alice --email alice@example.com  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(username, email, password, fullName, role)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	cmd.Flags().StringVar(&fullName, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", model.RoleSuperAdmin, "Role: super_admin, admin, or moderator")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(username, email, password, fullName, role string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}
	if !model.ValidRole(role) {
		return fmt.Errorf("invalid role %q (want super_admin, admin, or moderator)", role)
	}

	if password == "" {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		password = string(pwBytes)

		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		fmt.Println()

		if password != string(confirmBytes) {
			return fmt.Errorf("passwords do not match")
		}
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	hash, err := service.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if fullName == "" {
		fullName = username
	}
	admin := &model.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("an admin with that username or email already exists")
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created %s %q (id %d)\n", role, username, admin.ID)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	admins, err := st.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	if jsonOutput {
		profiles := make([]model.Profile, 0, len(admins))
		for i := range admins {
			profiles = append(profiles, admins[i].Profile())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	}

	if len(admins) == 0 {
		fmt.Println("No admin accounts. Use 'quizdeck admin create' to create one.")
		return nil
	}

	fmt.Printf("%-6s %-20s %-30s %-12s %-8s\n", "ID", "USERNAME", "EMAIL", "ROLE", "ACTIVE")
	for _, a := range admins {
		active := "yes"
		if !a.IsActive {
			active = "no"
		}
		fmt.Printf("%-6d %-20s %-30s %-12s %-8s\n", a.ID, a.Username, a.Email, a.Role, active)
	}

	return nil
}

// ---------- admin disable ----------

func newAdminDisableCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "disable",
		Short: "Deactivate an admin account",
		Long:  "Deactivate an admin account. Outstanding tokens stop working immediately.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminDisable(id)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Admin ID to disable (required)")
	cmd.MarkFlagRequired("id")

	return cmd
}

func runAdminDisable(id int64) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.SetAdminActive(ctx, id, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no admin with id %d", id)
		}
		return fmt.Errorf("disable admin: %w", err)
	}

	fmt.Printf("Disabled admin %d\n", id)
	return nil
}
