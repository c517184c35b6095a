package main

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/persona/internal/domain/catalog"
	"github.com/spf13/cobra"
)

// validate-roles exit codes.
const (
	exitUnreadable = 1
	exitInvalid    = 2
)

var validateRolesCmd = &cobra.Command{
	Use:   "validate-roles [path]",
	Short: "Check a roles YAML file",
	Long:  "Reports every problem in a roles file. Exits 0 when valid (warnings allowed), 1 when the file or its top-level roles mapping is unreadable, missing or empty, and 2 when a role is invalid.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidateRoles,
}

func init() {
	rootCmd.AddCommand(validateRolesCmd)
}

func runValidateRoles(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	path, err := resolveRolesPath(cmd.Context(), path)
	if err != nil {
		return err
	}
	return validateRoles(cmd.Context(), cmd.OutOrStdout(), path)
}

func validateRoles(_ context.Context, w io.Writer, path string) error {
	rep, err := catalog.ValidateFile(path)
	if err != nil {
		return &exitError{code: exitUnreadable, err: err}
	}
	for _, issue := range rep.Issues {
		fmt.Fprintln(w, issue.String())
	}
	if !rep.OK() {
		code := exitInvalid
		if rep.Roles == 0 {
			// No role could be read: the document itself is malformed.
			code = exitUnreadable
		}
		return &exitError{
			code: code,
			err:  fmt.Errorf("%s: validation failed with %d error(s) and %d warning(s)", path, len(rep.Errors()), len(rep.Warnings())),
		}
	}
	fmt.Fprintf(w, "%s: %d roles valid", path, rep.Roles)
	if n := len(rep.Warnings()); n > 0 {
		fmt.Fprintf(w, " with %d warning(s)", n)
	}
	fmt.Fprintln(w)
	return nil
}
