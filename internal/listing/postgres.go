package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tradepost.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, l *Listing) error {
	if l.ID == "" {
		l.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx,
		`insert into listings(id, owner_id, title, description, price_cents)
		 values($1,$2,$3,$4,$5)
		 returning created_at, updated_at`,
		l.ID, l.OwnerID, l.Title, l.Description, l.PriceCents,
	)
	if err := row.Scan(&l.CreatedAt, &l.UpdatedAt); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (s *PGStore) Find(ctx context.Context, id string) (*Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, owner_id, title, description, price_cents, created_at, updated_at
		 from listings where id=$1`, id)
	var l Listing
	err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.PriceCents, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return &l, nil
}

func (s *PGStore) Update(ctx context.Context, l *Listing) error {
	row := s.db.QueryRowContext(ctx,
		`update listings set title=$2, description=$3, price_cents=$4, updated_at=now()
		 where id=$1 returning updated_at`,
		l.ID, l.Title, l.Description, l.PriceCents,
	)
	if err := row.Scan(&l.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from listings where id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
