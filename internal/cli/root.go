// Package cli holds the linectl subcommands.
package cli

import (
	"context"
	"sync"

	"floor-backend/internal/config"
	"floor-backend/internal/db"
	"floor-backend/internal/store"

	"go.uber.org/zap"
)

// Context is shared by every command. The store is opened on first use
// so commands that never touch it start instantly.
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Log    *zap.Logger

	// Open connects the store; tests replace it
	Open func(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error)

	once  sync.Once
	store store.Store
	err   error
}

func NewContext(ctx context.Context, cfg *config.Config, log *zap.Logger) *Context {
	return &Context{Ctx: ctx, Config: cfg, Log: log, Open: db.OpenStore}
}

func (c *Context) Store() (store.Store, error) {
	c.once.Do(func() {
		c.store, c.err = c.Open(c.Ctx, c.Config, c.Log)
	})
	return c.store, c.err
}

// Close releases the store if a command opened it
func (c *Context) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
