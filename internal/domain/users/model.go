package users

import "time"

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"not null;uniqueIndex:idx_users_username" json:"username"`
	PasswordHash *string `json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	Email        *string `json:"email,omitempty"`
	Role         string  `gorm:"not null" json:"role"`
	FullName     *string `json:"full_name"`
	AvatarURL    *string `json:"avatar_url"`
	Bio          *string `json:"bio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleUser = "user"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// UpdateProfile changes the optional profile fields. An empty string clears a field.
type UpdateProfile struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

func (in UpdateProfile) Fields() map[string]any {
	f := map[string]any{}
	set := func(col string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			f[col] = nil
			return
		}
		f[col] = *v
	}
	set("full_name", in.FullName)
	set("avatar_url", in.AvatarURL)
	set("bio", in.Bio)
	return f
}
