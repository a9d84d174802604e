package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/mrz1836/liftoff/internal/dispatch"
	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// Terminal layout constants.
const (
	// TerminalEdgeMargin is kept between menu content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinMenuWidth is the minimum usable width for menu content.
	MinMenuWidth = 40
)

// Option is a selectable menu entry.
type Option struct {
	Label       string
	Description string
	Value       string
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// adaptWidth returns a menu width that fits the terminal.
func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultBoxWidth
		}
		return maxWidth
	}

	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	if available < MinMenuWidth {
		return MinMenuWidth
	}
	return available
}

// runForm runs a single-field form. Without a terminal it fails with
// ErrInteractiveRequired instead of blocking.
func runForm(field huh.Field, errorContext string) error {
	if !IsInteractive() {
		return lerrors.ErrInteractiveRequired
	}

	_, accessible := os.LookupEnv("ACCESSIBLE")
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(Theme()).
		WithWidth(adaptWidth(DefaultBoxWidth)).
		WithAccessible(accessible).
		WithShowHelp(true)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return lerrors.ErrMenuCanceled
		}
		return fmt.Errorf("%s: %w", errorContext, err)
	}
	return nil
}

// OperationOptions returns the numbered menu entries in menu order.
func OperationOptions() []Option {
	ops := dispatch.Operations()
	options := make([]Option, 0, len(ops))
	for _, op := range ops {
		options = append(options, Option{
			Label:       fmt.Sprintf("%s) %s", op.Menu, op.Name),
			Description: op.Description,
			Value:       op.Name,
		})
	}
	return options
}

// Select presents a single-selection menu and returns the chosen value.
func Select(title string, options []Option) (string, error) {
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}
		huhOptions[i] = huh.NewOption(label, opt.Value)
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	if err := runForm(field, "select menu failed"); err != nil {
		return "", err
	}
	return selected, nil
}

// ChooseOperation shows the 0-9 operation menu.
func ChooseOperation() (string, error) {
	return Select("What do you want to do?", OperationOptions())
}

// PromptVersion asks for a release version, validated as a semantic version.
func PromptVersion() (string, error) {
	var value string
	field := huh.NewInput().
		Title("Release version").
		Placeholder("1.4.0").
		Value(&value).
		Validate(func(s string) error {
			_, err := dispatch.NormalizeVersion(s)
			return err
		})

	if err := runForm(field, "version prompt failed"); err != nil {
		return "", err
	}
	return value, nil
}
