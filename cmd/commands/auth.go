package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/auth"
)

// NewLoginCommand returns the login subcommand.
func NewLoginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Sign in and store the session",
		ArgsUsage: "<email>",
		Action:    runLogin,
	}
}

// NewRegisterCommand returns the register subcommand.
func NewRegisterCommand() *cli.Command {
	return &cli.Command{
		Name:      "register",
		Usage:     "Create an account and sign in",
		ArgsUsage: "<name> <email>",
		Action:    runRegister,
	}
}

// NewLogoutCommand returns the logout subcommand.
func NewLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Drop the stored session",
		Action: runLogout,
	}
}

// NewWhoamiCommand returns the whoami subcommand.
func NewWhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in user",
		Action: runWhoami,
	}
}

func runLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.Args().First()
	if email == "" {
		return fmt.Errorf("usage: tasq login <email>")
	}
	if err := auth.ValidateEmail(email); err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.session.Login(ctx, email, password); err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}

	u, _ := a.session.User()
	fmt.Printf("Signed in as %s <%s>.\n", u.Name, u.Email)
	return nil
}

func runRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	email := cmd.Args().Get(1)
	if name == "" || email == "" {
		return fmt.Errorf("usage: tasq register <name> <email>")
	}
	if err := auth.ValidateName(name); err != nil {
		return err
	}
	if err := auth.ValidateEmail(email); err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if err := auth.ValidatePasswordConfirmation(password, confirm); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.session.Register(ctx, name, email, password); err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}

	fmt.Printf("Account created. Signed in as %s <%s>.\n", name, email)
	return nil
}

func runLogout(_ context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	a.session.Logout()
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	// Ask the server rather than trusting the cached profile, so a revoked
	// session is reported as such.
	u, err := a.client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}

	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	return nil
}

// readPassword prompts on stderr and reads without echo when stdin is a
// terminal, falling back to a plain line read otherwise.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}
