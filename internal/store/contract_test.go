package store

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/contacts/internal/core"
)

func sampleContact() *core.Contact {
	return &core.Contact{
		FirstName:   "Ana",
		LastName:    "Pop",
		Email:       "ana@x.com",
		Phonenumber: core.OptionalString("0711"),
		City:        core.OptionalString("Cluj"),
		Birthdate:   core.ParseBirthdate("2000-01-01"),
	}
}

func sameContact(a, b *core.Contact) bool {
	return a.ContactID == b.ContactID &&
		a.FirstName == b.FirstName &&
		a.LastName == b.LastName &&
		a.Email == b.Email &&
		core.StringValue(a.Phonenumber) == core.StringValue(b.Phonenumber) &&
		(a.Phonenumber == nil) == (b.Phonenumber == nil) &&
		core.StringValue(a.City) == core.StringValue(b.City) &&
		(a.City == nil) == (b.City == nil) &&
		core.FormatBirthdate(a.Birthdate) == core.FormatBirthdate(b.Birthdate) &&
		(a.Birthdate == nil) == (b.Birthdate == nil)
}

// runContract exercises the behavior every Store backend must share.
// newStore must return an empty store.
func runContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("create then get round trip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		c := sampleContact()
		c.ContactID = 999
		id, err := s.Create(ctx, c)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if id == 999 {
			t.Error("Create() kept the caller supplied ID")
		}
		if c.ContactID != id {
			t.Errorf("Create() wrote back ID %d, returned %d", c.ContactID, id)
		}

		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%d) error = %v", id, err)
		}
		if !sameContact(got, c) {
			t.Errorf("Get(%d) = %+v, want %+v", id, got, c)
		}
	})

	t.Run("absent optionals stay absent", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		c := &core.Contact{FirstName: "Ion", LastName: "Ionescu", Email: "ion@x.com"}
		id, err := s.Create(ctx, c)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Phonenumber != nil || got.City != nil || got.Birthdate != nil {
			t.Errorf("Get() = %+v, want nil optionals", got)
		}
	})

	t.Run("ids strictly increase", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		var last core.ContactID
		for i := 0; i < 3; i++ {
			id, err := s.Create(ctx, sampleContact())
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if id <= last {
				t.Errorf("Create() id %d not greater than %d", id, last)
			}
			last = id
		}
	})

	t.Run("duplicate emails are allowed", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for i := 0; i < 2; i++ {
			if _, err := s.Create(ctx, sampleContact()); err != nil {
				t.Fatalf("Create() #%d error = %v", i+1, err)
			}
		}
		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 2 {
			t.Errorf("List() returned %d records, want 2", len(all))
		}
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 0 {
			t.Fatalf("List() on empty store returned %d records", len(all))
		}

		for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
			c := sampleContact()
			c.Email = email
			if _, err := s.Create(ctx, c); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}
		all, err = s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("List() returned %d records, want 3", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i-1].ContactID >= all[i].ContactID {
				t.Errorf("List() not ascending at %d: %d >= %d", i, all[i-1].ContactID, all[i].ContactID)
			}
		}
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), 4242)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update replaces all fields", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		c := sampleContact()
		id, err := s.Create(ctx, c)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		changed := &core.Contact{
			ContactID: id,
			FirstName: "Ana Maria",
			LastName:  "Pop",
			Email:     "ana.maria@x.com",
			City:      core.OptionalString("Iasi"),
		}
		ok, err := s.Update(ctx, changed)
		if err != nil || !ok {
			t.Fatalf("Update() = %v, %v, want true, nil", ok, err)
		}

		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !sameContact(got, changed) {
			t.Errorf("Get() after update = %+v, want %+v", got, changed)
		}
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := newStore(t)
		c := sampleContact()
		c.ContactID = 4242
		ok, err := s.Update(context.Background(), c)
		if err != nil || ok {
			t.Errorf("Update(unknown) = %v, %v, want false, nil", ok, err)
		}
	})

	t.Run("delete is final", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		id, err := s.Create(ctx, sampleContact())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		ok, err := s.Delete(ctx, id)
		if err != nil || !ok {
			t.Fatalf("Delete() = %v, %v, want true, nil", ok, err)
		}
		if _, err := s.Get(ctx, id); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
		ok, err = s.Delete(ctx, id)
		if err != nil || ok {
			t.Errorf("second Delete() = %v, %v, want false, nil", ok, err)
		}
	})

	t.Run("ids are not reused", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		first, err := s.Create(ctx, sampleContact())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if _, err := s.Delete(ctx, first); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		second, err := s.Create(ctx, sampleContact())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if second <= first {
			t.Errorf("Create() after delete returned %d, want > %d", second, first)
		}
	})
}
