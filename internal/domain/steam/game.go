package steam

import (
	"errors"
	"strings"
	"time"

	"kit-inventory/internal/domain"
)

// Game is a Steam title on the user's watch list.
type Game struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_steam_games_user_app" json:"user_id"`
	AppID      int64     `gorm:"not null;uniqueIndex:idx_steam_games_user_app" json:"app_id"`
	Name       string    `gorm:"not null" json:"name"`
	SteamDBURL string    `gorm:"column:steam_db_url;not null" json:"steam_db_url"`
	IsBuy      bool      `gorm:"not null" json:"is_buy"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Game) TableName() string { return "steam_games" }

type CreateGame struct {
	AppID      int64   `json:"app_id"`
	Name       string  `json:"name"`
	SteamDBURL *string `json:"steam_db_url"`
}

func (in CreateGame) Validate() error {
	var errs []error
	if in.AppID <= 0 {
		errs = append(errs, errors.New("app_id must be positive"))
	}
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	return errors.Join(errs...)
}

func (in CreateGame) Parents() []domain.ParentRef { return nil }

func (in CreateGame) Model(ownerID uint, now time.Time) Game {
	g := Game{
		UserID:    ownerID,
		AppID:     in.AppID,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.SteamDBURL != nil {
		g.SteamDBURL = *in.SteamDBURL
	}
	return g
}

type UpdateGame struct {
	Name       *string `json:"name"`
	SteamDBURL *string `json:"steam_db_url"`
	IsBuy      *bool   `json:"is_buy"`
}

func (in UpdateGame) Validate() error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return errors.New("name must not be empty")
	}
	return nil
}

func (in UpdateGame) Parents() []domain.ParentRef { return nil }

func (in UpdateGame) Fields() map[string]any {
	f := map[string]any{}
	if in.Name != nil {
		f["name"] = *in.Name
	}
	if in.SteamDBURL != nil {
		f["steam_db_url"] = *in.SteamDBURL
	}
	if in.IsBuy != nil {
		f["is_buy"] = *in.IsBuy
	}
	return f
}

// Price is the current store price of an app as reported by Steam. Price is nil for
// free or unpriced titles.
type Price struct {
	AppID    int64    `json:"app_id"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Currency *string  `json:"currency"`
	Discount *int     `json:"discount"`
	Image    *string  `json:"image"`
}
