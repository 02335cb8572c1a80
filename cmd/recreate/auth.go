package main

import (
	"fmt"
	"strings"

	"github.com/jml312/recreate-client/internal/data"
	"github.com/jml312/recreate-client/internal/exceptions"
	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var credentials data.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Login(cmd.Context(), credentials)
			if err != nil {
				_printFieldErrors(cmd, a.sessions.Errors())
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sess.Username)
			if count := len(sess.Notifications); count > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "You have %d unread notifications\n", count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&credentials.Email, "email", "", "account email")
	cmd.Flags().StringVar(&credentials.Password, "password", "", "account password")
	cmd.Flags().StringVar(&credentials.CaptchaToken, "captcha", "", "captcha challenge token")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var registration data.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			registration.FullName = strings.TrimSpace(registration.FirstName + " " + registration.LastName)
			sess, err := a.sessions.Register(cmd.Context(), registration)
			if err != nil {
				_printFieldErrors(cmd, a.sessions.Errors())
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", sess.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&registration.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&registration.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&registration.Username, "username", "", "public username")
	cmd.Flags().StringVar(&registration.Email, "email", "", "account email")
	cmd.Flags().StringVar(&registration.Password, "password", "", "account password")
	cmd.Flags().StringVar(&registration.SelectedAvatar, "avatar", data.DefaultAvatar, "avatar name")
	cmd.Flags().StringVar(&registration.CaptchaToken, "captcha", "", "captcha challenge token")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newGoogleLoginCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "google-login <provider-token>",
		Short: "Log in with a Google identity token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.GoogleAuth(cmd.Context(), args[0])
			if err != nil {
				if _, ok := err.(*exceptions.NoAccountError); ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No account for this identity yet; run 'recreate register'")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sess.Username)
			return nil
		},
	}
	return cmd
}

func newForgotPasswordCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.ForgotPassword(cmd.Context(), args[0]); err != nil {
				_printFieldErrors(cmd, a.sessions.Errors())
				return err
			}
			if a.sessions.ConsumeEmailSent() {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset email sent")
			}
			return nil
		},
	}
	return cmd
}

func newResetPasswordCommand(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset-password <reset-token>",
		Short: "Set a new password from a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.ResetPassword(cmd.Context(), args[0], password); err != nil {
				_printFieldErrors(cmd, a.sessions.Errors())
				return err
			}
			if a.sessions.ConsumePasswordReset() {
				fmt.Fprintln(cmd.OutOrStdout(), "Password updated; log in with the new one")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Logout()
			a.recipes.Reset()
			a.social.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := a.sessions.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), cooking as %s since %s\n",
				sess.Username, sess.FullName, sess.SelectedAvatar, _timeSince(sess.CreateTime))
			return nil
		},
	}
}

func newNotificationsCommand(a *app) *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List unread notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			sess, _ := a.sessions.Current()
			if len(sess.Notifications) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No unread notifications")
				return nil
			}
			for _, n := range sess.Notifications {
				switch n.Kind {
				case data.NotificationFollow:
					fmt.Fprintf(cmd.OutOrStdout(), "%s followed you (%s)\n", n.Username, _timeSince(n.CreatedAt))
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s liked %q (%s)\n", n.Username, n.RecipeTitle, _timeSince(n.CreatedAt))
				}
			}
			if clear {
				if err := a.sessions.ClearNotifications(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Marked as read")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "mark every notification read")
	return cmd
}
