// Package operations implements the user-facing operations as explicit
// Options/Result functions dispatched from the CLI. Each operation is a
// tagged entry point with a validated parameter struct; there is no
// string-based dispatch.
package operations

import (
	"time"

	"github.com/vivtool/vivtool/pkg/backup"
	"github.com/vivtool/vivtool/pkg/config"
	"github.com/vivtool/vivtool/pkg/diff"
	"github.com/vivtool/vivtool/pkg/paths"
	"github.com/vivtool/vivtool/pkg/profile"
	"github.com/vivtool/vivtool/pkg/snapshot"
	"github.com/vivtool/vivtool/pkg/types"
	"github.com/vivtool/vivtool/pkg/ui/confirm"
)

// Env carries the collaborators every operation needs. It is constructed
// once at startup from the loaded configuration and passed by reference.
type Env struct {
	FS      types.FS
	Config  *config.Config
	Paths   *paths.Paths
	Confirm confirm.Confirmer

	// Clock tags snapshots and archives; tests override it
	Clock func() time.Time
}

// NewEnv builds an operation environment
func NewEnv(fs types.FS, cfg *config.Config, confirmer confirm.Confirmer) *Env {
	return &Env{
		FS:      fs,
		Config:  cfg,
		Paths:   paths.New(cfg),
		Confirm: confirmer,
		Clock:   time.Now,
	}
}

func (e *Env) snapshots() *snapshot.Store {
	store := snapshot.NewStore(e.FS, e.Paths)
	store.Now = e.Clock
	return store
}

func (e *Env) guard() *backup.Guard {
	return backup.NewGuard(e.FS, e.Paths)
}

func (e *Env) registry() *profile.Registry {
	return profile.NewRegistry(e.FS, e.Paths)
}

func (e *Env) resolver() *diff.Resolver {
	return diff.NewResolver(e.FS, e.Paths, e.snapshots(), e.guard())
}

func (e *Env) timestamp() string {
	return e.Clock().Format(paths.TimestampLayout)
}
