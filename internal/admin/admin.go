// Package admin implements the operator command line: provisioning users
// directly in the store and listing them, without going through the API.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/colorcheck/internal/flagx"
	"github.com/dmitrijs2005/colorcheck/internal/logging"
	"github.com/dmitrijs2005/colorcheck/internal/server/config"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/colorcheck/internal/server/services"
	"golang.org/x/term"
)

const usage = `usage:
  admin [-d database-url] useradd <username> [admin|user]
  admin [-d database-url] users
`

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var errUsage = errors.New("invalid usage")

// Users is the part of services.UserService the commands need.
type Users interface {
	Provision(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}

// Main runs the command line and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.LoadEnvConfig()

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database URL")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-d"})); err != nil {
		return 2
	}

	cmd := flagx.Positional(args, []string{"-d"})
	if len(cmd) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	db, rm, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer db.Close()

	users := services.NewUserService(db, rm, logging.Nop{})
	if err := Dispatch(ctx, users, cmd, os.Stdin, stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// Dispatch runs one command. in supplies the password when it is not a
// terminal.
func Dispatch(ctx context.Context, users Users, cmd []string, in *os.File, out io.Writer) error {
	switch cmd[0] {
	case "useradd":
		if len(cmd) < 2 || len(cmd) > 3 {
			return errUsage
		}
		role := ""
		if len(cmd) == 3 {
			role = cmd[2]
		}
		password, err := GetPassword(in, out)
		if err != nil {
			return err
		}
		return UserAdd(ctx, users, cmd[1], password, role, out)

	case "users":
		if len(cmd) != 1 {
			return errUsage
		}
		return ListUsers(ctx, users, out)

	default:
		return errUsage
	}
}

// UserAdd provisions an account and prints its token.
func UserAdd(ctx context.Context, users Users, userName, password, role string, out io.Writer) error {
	u, err := users.Provision(ctx, services.CreateUserInput{UserName: userName, Password: password, Role: role})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "created user %s (%s)\napi_token: %s\n", u.UserName, u.Role, u.Token)
	return err
}

// ListUsers prints one row per account.
func ListUsers(ctx context.Context, users Users, out io.Writer) error {
	list, err := users.ListAll(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tROLE")
	for _, u := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.UserName, u.Role)
	}
	return tw.Flush()
}

// GetPassword asks for a password on out. A terminal on in is read without
// echo; otherwise one line is read, so passwords can be piped in.
func GetPassword(in *os.File, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, "Enter password: "); err != nil {
		return "", err
	}

	fd := int(in.Fd())
	if isTerminal(fd) {
		pw, err := readPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
