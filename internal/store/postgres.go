package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/contacts/internal/core"
)

// DBTX is the query surface shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// contactRow mirrors a contacts row with nullable columns as pgtype values.
type contactRow struct {
	ContactID   int64
	FirstName   string
	LastName    string
	Email       string
	Phonenumber pgtype.Text
	City        pgtype.Text
	Birthdate   pgtype.Date
}

func (r contactRow) toContact() *core.Contact {
	return &core.Contact{
		ContactID:   core.ContactID(r.ContactID),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phonenumber: core.FromPgText(r.Phonenumber),
		City:        core.FromPgText(r.City),
		Birthdate:   core.FromPgDate(r.Birthdate),
	}
}

func scanContact(row pgx.Row) (contactRow, error) {
	var r contactRow
	err := row.Scan(
		&r.ContactID,
		&r.FirstName,
		&r.LastName,
		&r.Email,
		&r.Phonenumber,
		&r.City,
		&r.Birthdate,
	)
	return r, err
}

// Postgres is a Store backed by PostgreSQL through pgx.
type Postgres struct {
	db   DBTX
	pool *pgxpool.Pool
}

// NewPostgres returns a store that runs its queries on db. When db is a
// *pgxpool.Pool, Close closes it.
func NewPostgres(db DBTX) *Postgres {
	p := &Postgres{db: db}
	if pool, ok := db.(*pgxpool.Pool); ok {
		p.pool = pool
	}
	return p
}

func (p *Postgres) Create(ctx context.Context, c *core.Contact) (core.ContactID, error) {
	var id int64
	err := p.db.QueryRow(ctx, createContact,
		c.FirstName,
		c.LastName,
		c.Email,
		core.ToPgText(c.Phonenumber),
		core.ToPgText(c.City),
		core.ToPgDate(c.Birthdate),
	).Scan(&id)
	if err != nil {
		return 0, core.NewStorageError("create", err)
	}
	c.ContactID = core.ContactID(id)
	return c.ContactID, nil
}

func (p *Postgres) Get(ctx context.Context, id core.ContactID) (*core.Contact, error) {
	r, err := scanContact(p.db.QueryRow(ctx, getContact, int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, core.NewStorageError("get", err)
	}
	return r.toContact(), nil
}

func (p *Postgres) List(ctx context.Context) ([]*core.Contact, error) {
	rows, err := p.db.Query(ctx, listContacts)
	if err != nil {
		return nil, core.NewStorageError("list", err)
	}
	defer rows.Close()

	var out []*core.Contact
	for rows.Next() {
		r, err := scanContact(rows)
		if err != nil {
			return nil, core.NewStorageError("list", err)
		}
		out = append(out, r.toContact())
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("list", err)
	}
	return out, nil
}

func (p *Postgres) Update(ctx context.Context, c *core.Contact) (bool, error) {
	tag, err := p.db.Exec(ctx, updateContact,
		int64(c.ContactID),
		c.FirstName,
		c.LastName,
		c.Email,
		core.ToPgText(c.Phonenumber),
		core.ToPgText(c.City),
		core.ToPgDate(c.Birthdate),
	)
	if err != nil {
		return false, core.NewStorageError("update", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (p *Postgres) Delete(ctx context.Context, id core.ContactID) (bool, error) {
	tag, err := p.db.Exec(ctx, deleteContact, int64(id))
	if err != nil {
		return false, core.NewStorageError("delete", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Close closes the pool if the store owns one.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
