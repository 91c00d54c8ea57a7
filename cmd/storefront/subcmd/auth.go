package subcmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewLoginCommand())
	RootCmd.AddCommand(NewLogoutCommand())
	RootCmd.AddCommand(NewMeCommand())
}

type LoginCommand struct {
	Email    string
	Password string
}

func NewLoginCommand() *cobra.Command {
	loginCmd := &LoginCommand{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE:  loginCmd.run,
	}
	cmd.Flags().StringVarP(&loginCmd.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&loginCmd.Password, "password", "p", "", "account password (prompted when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func (l *LoginCommand) run(cmd *cobra.Command, args []string) error {
	if l.Password == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		l.Password = strings.TrimSpace(line)
	}

	a, stop, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer stop()

	sess, err := a.Login(cmd.Context(), l.Email, l.Password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", sess.Name, sess.Email)
	return nil
}

func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			if err := a.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func NewMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			if !a.Session.Authenticated() {
				fmt.Println("not logged in")
				return nil
			}
			sess := a.Session.Current()
			w := table()
			fmt.Fprintf(w, "name\t%s\n", sess.Name)
			fmt.Fprintf(w, "email\t%s\n", sess.Email)
			if sess.Role != "" {
				fmt.Fprintf(w, "role\t%s\n", sess.Role)
			}
			return w.Flush()
		},
	}
}
