// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command rolectl inspects and edits account role codes from an operator shell.
//
// # Usage
//
//	rolectl show <email>
//	rolectl grant <email> <role>...
//	rolectl revoke <email> <role>...
//	rolectl create-admin [-pseudo name] <email> <password>
//
// Roles are given by name (learner, teacher, conceptor, admin). The command
// reads DATABASE_URL and the other settings from the same environment as the
// API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/taibuivan/cursus/internal/platform/config"
	"github.com/taibuivan/cursus/internal/platform/constants"
	pgstore "github.com/taibuivan/cursus/internal/platform/postgres"
	"github.com/taibuivan/cursus/internal/users/account"
	"github.com/taibuivan/cursus/internal/users/auth"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})).
		With(slog.String("app", constants.AppName+"-rolectl"))

	cfg, err := config.Load()
	if err != nil {
		fail(log, "load configuration", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log, pgstore.WithMaxConns(2))
	if err != nil {
		fail(log, "connect to postgres", err)
	}
	defer pool.Close()

	service := account.NewService(auth.NewUserRepository(pool), keepSessions{}, cfg.DefaultRoleCode, log)

	if err := run(ctx, service, os.Args[1:], os.Stdout); err != nil {
		pool.Close()
		fail(log, "run command", err)
	}
}

// keepSessions leaves refresh tokens alone. None of the rolectl commands
// change a password or delete an account.
type keepSessions struct{}

func (keepSessions) RevokeAllSessions(context.Context, string) error { return nil }

func fail(log *slog.Logger, step string, err error) {
	log.Error("rolectl_failure", slog.String("step", step), slog.Any("error", err))
	fmt.Fprintln(os.Stderr, "rolectl:", err)
	os.Exit(1)
}
