// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/users/account"
	"github.com/taibuivan/cursus/internal/users/auth"
	"github.com/taibuivan/cursus/pkg/slice"
)

// operator is the actor recorded for changes made from the shell. Its subject
// never matches an account email, so the self-demotion guard does not apply.
var operator = account.Actor{Subject: "rolectl", Role: sec.NewRoleCode(sec.RoleAdmin)}

var errUsage = errors.New("usage: rolectl show|grant|revoke|create-admin ...")

// run executes one rolectl command against the account service and prints the
// resulting account to out.
func run(ctx context.Context, service *account.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("%w: show <email>", errUsage)
		}
		user, err := service.GetByEmail(ctx, rest[0])
		if err != nil {
			return err
		}
		printUser(out, user)
		return nil

	case "grant", "revoke":
		if len(rest) < 2 {
			return fmt.Errorf("%w: %s <email> <role>...", errUsage, command)
		}
		roles, err := parseRoles(rest[1:])
		if err != nil {
			return err
		}
		user, err := service.GetByEmail(ctx, rest[0])
		if err != nil {
			return err
		}

		change := account.RoleChange{Grant: roles}
		if command == "revoke" {
			change = account.RoleChange{Revoke: roles}
		}
		updated, err := service.ChangeRoles(ctx, operator, user.ID, change)
		if err != nil {
			return err
		}
		printUser(out, updated)
		return nil

	case "create-admin":
		flags := flag.NewFlagSet("create-admin", flag.ContinueOnError)
		flags.SetOutput(out)
		pseudo := flags.String("pseudo", "", "display name (defaults to the email local part)")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		if flags.NArg() != 2 {
			return fmt.Errorf("%w: create-admin [-pseudo name] <email> <password>", errUsage)
		}
		user, err := service.Create(ctx, account.CreateInput{
			Pseudo:   *pseudo,
			Email:    flags.Arg(0),
			Password: flags.Arg(1),
			Role:     sec.NewRoleCode(sec.RoleAdmin).String(),
		})
		if err != nil {
			return err
		}
		printUser(out, user)
		return nil
	}

	return fmt.Errorf("%w: unknown command %q", errUsage, command)
}

func parseRoles(names []string) ([]sec.Role, error) {
	roles := make([]sec.Role, 0, len(names))
	for _, name := range names {
		role, err := sec.ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func printUser(out io.Writer, user *auth.User) {
	names := slice.Map(user.Role.Roles(), sec.Role.String)
	fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", user.ID, user.Email, user.Role, strings.Join(names, ","))
}
