package repomanager

import (
	"context"
	"database/sql"

	"github.com/petiteannonce/server/internal/dbx"
	"github.com/petiteannonce/server/internal/server/repositories/announces"
	"github.com/petiteannonce/server/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Announces(db dbx.DBTX) announces.Repository
}
