package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JonMunkholm/contacts/internal/core"
)

// contactModel maps the contacts table for gorm.
type contactModel struct {
	ContactID   int64      `gorm:"column:contact_id;primaryKey;autoIncrement"`
	FirstName   string     `gorm:"column:first_name;not null"`
	LastName    string     `gorm:"column:last_name;not null"`
	Email       string     `gorm:"column:email;not null"`
	Phonenumber *string    `gorm:"column:phonenumber"`
	City        *string    `gorm:"column:city"`
	Birthdate   *time.Time `gorm:"column:birthdate;type:date"`
}

func (contactModel) TableName() string { return "contacts" }

func modelFromContact(c *core.Contact) contactModel {
	return contactModel{
		ContactID:   int64(c.ContactID),
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phonenumber: c.Phonenumber,
		City:        c.City,
		Birthdate:   core.NormalizeBirthdate(c.Birthdate),
	}
}

func (m contactModel) toContact() *core.Contact {
	return &core.Contact{
		ContactID:   core.ContactID(m.ContactID),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		Phonenumber: m.Phonenumber,
		City:        m.City,
		Birthdate:   core.NormalizeBirthdate(m.Birthdate),
	}
}

// Gorm is a Store backed by gorm over an existing *sql.DB.
type Gorm struct {
	db      *gorm.DB
	closeFn func() error
}

// NewGorm opens gorm on sqlDB using the PostgreSQL dialect. closeFn, if not
// nil, runs on Close after the handle is released.
func NewGorm(sqlDB *sql.DB, log logger.Interface, closeFn func() error) (*Gorm, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: log,
	})
	if err != nil {
		return nil, core.NewStorageError("open", err)
	}
	return &Gorm{db: db, closeFn: closeFn}, nil
}

func (g *Gorm) Create(ctx context.Context, c *core.Contact) (core.ContactID, error) {
	m := modelFromContact(c)
	m.ContactID = 0
	if err := g.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, core.NewStorageError("create", err)
	}
	c.ContactID = core.ContactID(m.ContactID)
	return c.ContactID, nil
}

func (g *Gorm) Get(ctx context.Context, id core.ContactID) (*core.Contact, error) {
	var m contactModel
	err := g.db.WithContext(ctx).First(&m, "contact_id = ?", int64(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, core.NewStorageError("get", err)
	}
	return m.toContact(), nil
}

func (g *Gorm) List(ctx context.Context) ([]*core.Contact, error) {
	var ms []contactModel
	if err := g.db.WithContext(ctx).Order("contact_id").Find(&ms).Error; err != nil {
		return nil, core.NewStorageError("list", err)
	}

	out := make([]*core.Contact, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toContact())
	}
	return out, nil
}

func (g *Gorm) Update(ctx context.Context, c *core.Contact) (bool, error) {
	m := modelFromContact(c)
	res := g.db.WithContext(ctx).Model(&contactModel{}).
		Where("contact_id = ?", m.ContactID).
		Updates(map[string]interface{}{
			"first_name":  m.FirstName,
			"last_name":   m.LastName,
			"email":       m.Email,
			"phonenumber": m.Phonenumber,
			"city":        m.City,
			"birthdate":   m.Birthdate,
		})
	if res.Error != nil {
		return false, core.NewStorageError("update", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (g *Gorm) Delete(ctx context.Context, id core.ContactID) (bool, error) {
	res := g.db.WithContext(ctx).Delete(&contactModel{}, "contact_id = ?", int64(id))
	if res.Error != nil {
		return false, core.NewStorageError("delete", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if g.closeFn != nil {
		if cerr := g.closeFn(); err == nil {
			err = cerr
		}
	}
	return err
}
