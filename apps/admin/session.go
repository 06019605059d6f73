package main

import (
	"context"
	"fmt"
)

// login opens a session that survives across invocations; the navigation
// signal prints the landing route the web client would redirect to.
func (cli *commandLine) login(ctx context.Context, email, pwd string) error {
	usr, err := cli.session.Login(ctx, email, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "logged in as %s <%s> (%s)\n", usr.FullName(), usr.Email, usr.Role.Title())
	return nil
}

func (cli *commandLine) whoami() error {
	cli.session.Hydrate()
	usr, ok := cli.session.Current()
	if !ok {
		fmt.Fprintln(cli.out, "not logged in")
		return nil
	}
	fmt.Fprintf(cli.out, "%s <%s> (%s)\n", usr.FullName(), usr.Email, usr.Role.Title())
	if usr.Code != "" {
		fmt.Fprintf(cli.out, "code: %s\n", usr.Code)
	}
	return nil
}

func (cli *commandLine) logout() error {
	cli.session.Logout()
	fmt.Fprintln(cli.out, "logged out")
	return nil
}
