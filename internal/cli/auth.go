package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tariqai1/student-productivity-app/internal/api"
	"github.com/Tariqai1/student-productivity-app/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(true)
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" {
			username = prompt("Username: ")
		}
		if password == "" {
			password = prompt("Password: ")
		}

		res, err := app.client.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		if err := app.tokens.Save(res.AccessToken); err != nil {
			return fmt.Errorf("store token: %w", err)
		}

		user, err := app.client.Me(cmd.Context())
		if err != nil {
			return err
		}
		app.sess.LoginSuccess(user)

		fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(true)
		if err != nil {
			return err
		}
		app.sess.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(true)
		if err != nil {
			return err
		}

		app.sess.Bootstrap(cmd.Context())
		if app.sess.State() != session.StateAuthenticated {
			fmt.Println("Not logged in.")
			return nil
		}

		user := app.sess.User()
		fmt.Printf("%s (%s)\n", user.FullName, user.Username)
		fmt.Printf("Role:   %s\n", user.Role)
		if user.Email != "" {
			fmt.Printf("Email:  %s\n", user.Email)
		}
		if user.Course != "" {
			fmt.Printf("Course: %s\n", user.Course)
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a student account",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(true)
		if err != nil {
			return err
		}

		req := api.RegisterRequest{}
		req.FullName, _ = cmd.Flags().GetString("full-name")
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Course, _ = cmd.Flags().GetString("course")

		if err := app.client.Register(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Println("Registered. You can log in now.")
		return nil
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(true)
		if err != nil {
			return err
		}
		msg, err := app.client.ForgotPassword(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <token>",
	Short: "Set a new password using a reset token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(true)
		if err != nil {
			return err
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = prompt("New password: ")
		}
		if err := app.client.ResetPassword(cmd.Context(), args[0], password); err != nil {
			return err
		}
		fmt.Println("Password reset. You can log in now.")
		return nil
	},
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "username")
	loginCmd.Flags().StringP("password", "p", "", "password")

	registerCmd.Flags().String("full-name", "", "full name")
	registerCmd.Flags().StringP("username", "u", "", "username")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().StringP("password", "p", "", "password")
	registerCmd.Flags().String("course", "", "course name")
	_ = registerCmd.MarkFlagRequired("full-name")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	resetPasswordCmd.Flags().StringP("password", "p", "", "new password")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd, forgotPasswordCmd, resetPasswordCmd)
}
