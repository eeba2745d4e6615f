package store

import (
	"context"
	"time"

	"kit-inventory/internal/domain"

	"gorm.io/gorm"
)

// Creator is the create payload of a resource M.
type Creator[M any] interface {
	Validate() error
	Parents() []domain.ParentRef
	Model(ownerID uint, now time.Time) M
}

// Updater is a partial update payload. Fields holds only the columns the caller supplied.
type Updater interface {
	Validate() error
	Parents() []domain.ParentRef
	Fields() map[string]any
}

// Filter narrows a list by column equality. A nil map means no filter.
type Filter interface {
	Conditions() map[string]any
}

// Resource is the owner-scoped CRUD engine shared by every resource type.
type Resource[M any, C Creator[M], U Updater] struct {
	s    *Store
	name string
}

func newResource[M any, C Creator[M], U Updater](s *Store, name string) *Resource[M, C, U] {
	return &Resource[M, C, U]{s: s, name: name}
}

// Create validates in, checks its parents belong to ownerID and inserts the row.
func (r *Resource[M, C, U]) Create(ctx context.Context, ownerID uint, in C) (M, error) {
	var out M
	if err := in.Validate(); err != nil {
		return out, invalid(r.name, err)
	}

	err := r.s.tx(ctx, r.name, func(tx *gorm.DB) error {
		if err := checkParents(tx, r.name, ownerID, in.Parents()); err != nil {
			return err
		}
		row := in.Model(ownerID, r.s.clock())
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := checkSameKit(tx, ownerID, row); err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		var zero M
		return zero, err
	}
	return out, nil
}

func (r *Resource[M, C, U]) Get(ctx context.Context, ownerID, id uint) (M, error) {
	var out M
	err := r.s.run(ctx, r.name, func(db *gorm.DB) error {
		return db.Scopes(ownedBy(ownerID)).First(&out, id).Error
	})
	return out, err
}

// List returns the owner's rows in insertion order. No match is an empty slice.
func (r *Resource[M, C, U]) List(ctx context.Context, ownerID uint, f Filter) ([]M, error) {
	out := make([]M, 0)
	err := r.s.run(ctx, r.name, func(db *gorm.DB) error {
		q := db.Scopes(ownedBy(ownerID))
		if f != nil {
			if cond := f.Conditions(); len(cond) > 0 {
				q = q.Where(cond)
			}
		}
		return q.Order("id ASC").Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites only the supplied fields and refreshes updated_at.
func (r *Resource[M, C, U]) Update(ctx context.Context, ownerID, id uint, in U) (M, error) {
	if err := in.Validate(); err != nil {
		var zero M
		return zero, invalid(r.name, err)
	}
	return r.patch(ctx, ownerID, id, in.Parents(), in.Fields())
}

func (r *Resource[M, C, U]) patch(ctx context.Context, ownerID, id uint, parents []domain.ParentRef, fields map[string]any) (M, error) {
	var out M
	err := r.s.tx(ctx, r.name, func(tx *gorm.DB) error {
		if err := checkParents(tx, r.name, ownerID, parents); err != nil {
			return err
		}
		row, err := r.apply(tx, ownerID, id, fields)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		var zero M
		return zero, err
	}
	return out, nil
}

// apply updates one owned row inside tx and reads it back.
func (r *Resource[M, C, U]) apply(tx *gorm.DB, ownerID, id uint, fields map[string]any) (M, error) {
	var out M
	if fields == nil {
		fields = map[string]any{}
	}
	fields["updated_at"] = r.s.clock()

	res := tx.Model(new(M)).Scopes(ownedBy(ownerID)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return out, res.Error
	}
	if res.RowsAffected == 0 {
		return out, notFound(r.name)
	}
	if err := tx.Scopes(ownedBy(ownerID)).First(&out, id).Error; err != nil {
		return out, err
	}
	return out, checkSameKit(tx, ownerID, out)
}

// Delete removes the row physically. Children go with it through the schema's cascades.
func (r *Resource[M, C, U]) Delete(ctx context.Context, ownerID, id uint) error {
	return r.s.run(ctx, r.name, func(db *gorm.DB) error {
		res := db.Scopes(ownedBy(ownerID)).Where("id = ?", id).Delete(new(M))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(r.name)
		}
		return nil
	})
}

// checkParents makes sure every referenced parent exists and belongs to ownerID. A
// foreign parent reads the same as a missing one.
func checkParents(tx *gorm.DB, resource string, ownerID uint, refs []domain.ParentRef) error {
	for _, ref := range refs {
		var n int64
		if err := tx.Model(ref.Model).Scopes(ownedBy(ownerID)).Where("id = ?", ref.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return invalidf(resource, "%s does not reference a %s you own", ref.Field, ref.Noun)
		}
	}
	return nil
}
