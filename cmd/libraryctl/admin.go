package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/security/password"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/eldieng/Fawsayni-Tech/internal/validate"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type adminInput struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required,email"`
}

func newCreateAdminCmd() *cobra.Command {
	var (
		in        adminInput
		fromStdin bool
	)
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account and print its id",
		Long: "Create an admin account. The printed id can be used as DEFAULT_OWNER_ID.\n" +
			"The password is prompted for unless --password-stdin is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = validate.Text(in.Name)
			in.Email = validate.Email(in.Email)
			if err := validate.Struct(in); err != nil {
				return err
			}

			var (
				pwd string
				err error
			)
			if fromStdin {
				pwd, err = readLine(cmd.InOrStdin())
			} else {
				pwd, err = promptPassword(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}
			if err := password.Validate(pwd); err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, db, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close(context.WithoutCancel(ctx))

			hash, err := password.NewHasher(cfg.Auth.Argon2).Hash(pwd)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u := models.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: models.RoleAdmin}
			if err := db.Users.CreateUser(ctx, &u); err != nil {
				if errors.Is(err, store.ErrConflict) {
					return fmt.Errorf("%s is already registered", in.Email)
				}
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readLine reads one line and strips only the line terminator.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func promptPassword(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}
	fmt.Fprint(w, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(w, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
