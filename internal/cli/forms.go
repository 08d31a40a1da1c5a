package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/pablasso/todo/internal/exitcode"
	"github.com/pablasso/todo/internal/task"
)

var errCancelled = errors.New("cancelled")

// runForm runs f, mapping an aborted form to a user error.
func runForm(f *huh.Form) error {
	err := f.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return exitcode.User(errCancelled)
	}
	if err != nil {
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func loginForm(username, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(required("password")),
		),
	)
}

type registerInput struct {
	name, email, username, password string
}

func registerForm(in *registerInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&in.name).
				Validate(required("name")),
			huh.NewInput().
				Title("Email").
				Value(&in.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("email must be an email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Username").
				Value(&in.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&in.password).
				Validate(required("password")),
		),
	)
}

type addInput struct {
	name, description, difficulty, priority string
}

func addForm(in *addInput) *huh.Form {
	difficultyOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for _, d := range task.Difficulties {
		difficultyOptions = append(difficultyOptions, huh.NewOption(strings.ToUpper(string(d[:1]))+string(d[1:]), string(d)))
	}

	priorityOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for p := task.MinPriority; p <= task.MaxPriority; p++ {
		priorityOptions = append(priorityOptions, huh.NewOption("P"+strconv.Itoa(p), strconv.Itoa(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("What needs to be done (required)").
				Value(&in.name).
				Validate(required("name")),

			huh.NewText().
				Title("Description").
				Description("Optional details").
				CharLimit(5000).
				Value(&in.description),

			huh.NewSelect[string]().
				Title("Difficulty").
				Options(difficultyOptions...).
				Value(&in.difficulty),

			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions...).
				Value(&in.priority),
		),
	)
}
