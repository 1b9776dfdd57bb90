package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramonehamilton/forgebreaker/internal/storage/repository"
)

// Repos holds repositories bound to one transaction.
type Repos struct {
	Collections repository.CollectionRepository
	MetaDecks   repository.MetaDeckRepository
}

func newRepos(q repository.Querier) Repos {
	return Repos{
		Collections: repository.NewCollectionRepository(q),
		MetaDecks:   repository.NewMetaDeckRepository(q),
	}
}

// WithTransaction runs fn with repositories bound to a single
// transaction. A returned error or a panic rolls every write back; the
// panic is re-raised after the rollback.
func (db *DB) WithTransaction(ctx context.Context, fn func(Repos) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbErr := tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
		}
	}()

	if err = fn(newRepos(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
