package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newRootCommand() (*cobra.Command, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	root := &cobra.Command{
		Use:           "recreate",
		Short:         "Share and discover recipes from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.Close()
		},
	}
	root.AddCommand(
		newLoginCommand(a),
		newRegisterCommand(a),
		newGoogleLoginCommand(a),
		newForgotPasswordCommand(a),
		newResetPasswordCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newNotificationsCommand(a),
		newFeedCommand(a),
		newTopCommand(a),
		newMineCommand(a),
		newLikesCommand(a),
		newShowCommand(a),
		newCreateCommand(a),
		newEditCommand(a),
		newDeleteCommand(a),
		newLikeCommand(a),
		newProfileCommand(a),
		newFollowCommand(a),
		newAccountCommand(a),
	)
	return root, nil
}

// _printFieldErrors renders a store's field-keyed error map the way the
// web client shows inline messages under each input.
func _printFieldErrors(cmd *cobra.Command, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", key, fields[key])
	}
}
