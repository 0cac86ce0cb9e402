package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tariqai1/student-productivity-app/internal/api"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		user, err := app.client.Me(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", user.FullName, user.Username)
		fmt.Printf("Email:   %s\n", user.Email)
		fmt.Printf("Course:  %s\n", user.Course)
		fmt.Printf("Mentor:  %s\n", user.MentorName)
		fmt.Printf("Phone:   %s\n", user.Phone)
		fmt.Printf("Address: %s\n", user.Address)
		if user.Image != "" {
			fmt.Printf("Photo:   %s\n", user.Image)
		}
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		var upd api.ProfileUpdate
		set := func(flag string, dst **string) {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*dst = &v
			}
		}
		set("full-name", &upd.FullName)
		set("phone", &upd.Phone)
		set("address", &upd.Address)
		set("course", &upd.Course)
		set("mentor", &upd.MentorName)

		if upd.FullName == nil && upd.Phone == nil && upd.Address == nil && upd.Course == nil && upd.MentorName == nil {
			return fmt.Errorf("nothing to update, pass at least one field flag")
		}

		if err := app.client.UpdateProfile(cmd.Context(), upd); err != nil {
			return err
		}
		fmt.Println("Profile updated.")
		return nil
	},
}

var profilePhotoCmd = &cobra.Command{
	Use:   "photo <file>",
	Short: "Upload a profile photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		url, err := app.client.UploadPhoto(cmd.Context(), data, filepath.Base(args[0]))
		if err != nil {
			return err
		}
		fmt.Println("Photo uploaded:", url)
		return nil
	},
}

var remarkCmd = &cobra.Command{
	Use:   "remark",
	Short: "Annotate one of your days (e.g. sick leave)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		date, _ := cmd.Flags().GetString("date")
		remark, _ := cmd.Flags().GetString("remark")
		if err := app.client.UpsertRemark(cmd.Context(), date, remark); err != nil {
			return err
		}
		fmt.Println("Remark saved.")
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().String("full-name", "", "full name")
	profileUpdateCmd.Flags().String("phone", "", "phone number")
	profileUpdateCmd.Flags().String("address", "", "address")
	profileUpdateCmd.Flags().String("course", "", "course name")
	profileUpdateCmd.Flags().String("mentor", "", "mentor name")

	remarkCmd.Flags().String("date", "", "date (YYYY-MM-DD)")
	remarkCmd.Flags().String("remark", "", "remark text")
	_ = remarkCmd.MarkFlagRequired("date")
	_ = remarkCmd.MarkFlagRequired("remark")

	profileCmd.AddCommand(profileUpdateCmd, profilePhotoCmd)
	rootCmd.AddCommand(profileCmd, remarkCmd)
}
