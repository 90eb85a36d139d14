package cli

import (
	"errors"
	"fmt"

	"floor-backend/internal/config"
	"floor-backend/internal/db"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	if ctx.Config.Store.Backend != config.BackendPostgres {
		return errors.New("migrate only applies to the postgres backend")
	}
	pool, err := db.Connect(ctx.Ctx, ctx.Config)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx.Ctx, pool, ctx.Log); err != nil {
		return err
	}
	fmt.Println("Database is up to date")
	return nil
}
