package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/user"
)

// addUser creates the account, or reactivates it with a fresh password and
// role when one with that email already exists.
func (cli *commandLine) addUser(email, first, last, pwd string, role user.Role) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		if usr, err = cli.usrSvc.Create(ctx, user.NewUser{
			FirstName:       core.CleanString(first),
			LastName:        core.CleanString(last),
			Email:           email,
			Role:            role,
			Password:        pwd,
			PasswordConfirm: pwd,
		}); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "created %s (%s)\n", usr.Email, usr.Role.Title())
		return nil
	}

	usr.Role = role
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	active := true
	if usr, err = cli.usrRepo.UpdateUser(ctx, usr, &active); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "updated %s (%s)\n", usr.Email, usr.Role.Title())
	return nil
}
