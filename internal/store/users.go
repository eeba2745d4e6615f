package store

import (
	"context"

	"kit-inventory/internal/domain/users"

	"gorm.io/gorm"
)

// Accounts are not owner-scoped: they are the owners.

const userResource = "user"

// CreateUser inserts u. A taken username or Google subject is a Conflict.
func (s *Store) CreateUser(ctx context.Context, u users.User) (users.User, error) {
	now := s.clock()
	u.ID = 0
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = users.RoleUser
	}
	if u.AuthProvider == "" {
		u.AuthProvider = users.ProviderLocal
	}

	err := s.run(ctx, userResource, func(db *gorm.DB) error {
		return db.Create(&u).Error
	})
	if err != nil {
		return users.User{}, err
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (users.User, error) {
	var u users.User
	err := s.run(ctx, userResource, func(db *gorm.DB) error {
		return db.First(&u, id).Error
	})
	return u, err
}

func (s *Store) UserByUsername(ctx context.Context, username string) (users.User, error) {
	var u users.User
	err := s.run(ctx, userResource, func(db *gorm.DB) error {
		return db.Where("username = ?", username).First(&u).Error
	})
	return u, err
}

func (s *Store) UserByGoogleSubject(ctx context.Context, sub string) (users.User, error) {
	var u users.User
	err := s.run(ctx, userResource, func(db *gorm.DB) error {
		return db.Where("google_sub = ?", sub).First(&u).Error
	})
	return u, err
}

// LinkGoogleSubject attaches a Google account to an existing user.
func (s *Store) LinkGoogleSubject(ctx context.Context, userID uint, sub string) (users.User, error) {
	var u users.User
	err := s.tx(ctx, userResource, func(tx *gorm.DB) error {
		res := tx.Model(&users.User{}).Where("id = ?", userID).Updates(map[string]any{
			"google_sub": sub,
			"updated_at": s.clock(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(userResource)
		}
		return tx.First(&u, userID).Error
	})
	return u, err
}

// UpdateProfile applies the supplied profile fields of userID.
func (s *Store) UpdateProfile(ctx context.Context, userID uint, in users.UpdateProfile) (users.User, error) {
	fields := in.Fields()
	fields["updated_at"] = s.clock()

	var u users.User
	err := s.tx(ctx, userResource, func(tx *gorm.DB) error {
		res := tx.Model(&users.User{}).Where("id = ?", userID).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(userResource)
		}
		return tx.First(&u, userID).Error
	})
	return u, err
}
