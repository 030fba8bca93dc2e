package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/me/fintrade/pkg/model"
	"github.com/spf13/cobra"
)

// interactive reports whether the command reads from a terminal, so
// missing values can be prompted for.
func interactive(cmd *cobra.Command) bool {
	if cmd.InOrStdin() != os.Stdin {
		return false
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// field is one value a form may need to prompt for.
type field struct {
	flag     string
	title    string
	value    *string
	secret   bool
	validate func(string) string
}

// fill prompts for every empty field when interactive; otherwise it fails
// naming the first missing flag.
func fill(cmd *cobra.Command, title string, fields ...field) error {
	var missing []field
	for _, f := range fields {
		if *f.value == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if !interactive(cmd) {
		return fmt.Errorf("--%s is required", missing[0].flag)
	}

	inputs := make([]huh.Field, 0, len(missing))
	for _, f := range missing {
		in := huh.NewInput().Title(f.title).Value(f.value)
		if f.secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		if f.validate != nil {
			check := f.validate
			in = in.Validate(func(s string) error {
				if msg := check(s); msg != "" {
					return errors.New(msg)
				}
				return nil
			})
		}
		inputs = append(inputs, in)
	}
	form := huh.NewForm(huh.NewGroup(inputs...).Title(title))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// confirm asks a yes/no question. Without a terminal it refuses; pass
// --yes to skip the question.
func confirm(cmd *cobra.Command, question string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !interactive(cmd) {
		return false, errors.New("confirmation required: pass --yes")
	}
	var ok bool
	form := huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(question).Value(&ok)))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}

// reportInvalid prints field errors the way a form shows them and returns
// err unchanged.
func reportInvalid(cmd *cobra.Command, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		w := cmd.ErrOrStderr()
		for _, f := range verr.Fields {
			fmt.Fprintf(w, "  %s %s: %s\n", styleError.Render("✗"), f.Field, f.Message)
		}
	}
	return err
}

// userMessage returns the backend's message for err, or fallback.
func userMessage(err error, fallback string) error {
	if errors.Is(err, model.ErrUnauthorized) {
		return errors.New("session expired: run 'fintrade login' again")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.UserMessage(fallback))
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
