package store

import (
	"context"
	"time"

	"kit-inventory/internal/domain/kits"
	"kit-inventory/internal/domain/steam"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultTimeout = 5 * time.Second

// Store is the ownership-scoped resource store. Every operation takes the id of the
// authenticated principal and only ever sees rows owned by it.
type Store struct {
	db      *gorm.DB
	now     func() time.Time
	timeout time.Duration

	Kits          *Resource[kits.Kit, kits.CreateKit, kits.UpdateKit]
	SubAssemblies *Resource[kits.SubAssembly, kits.CreateSubAssembly, kits.UpdateSubAssembly]
	KitParts      *Resource[kits.KitPart, kits.CreateKitPart, kits.UpdateKitPart]
	Runners       *Resource[kits.Runner, kits.CreateRunner, kits.UpdateRunner]
	Colors        *Resource[kits.Color, kits.CreateColor, kits.UpdateColor]
	Requirements  *Resource[kits.Requirement, kits.CreateRequirement, kits.UpdateRequirement]
	SteamGames    *Resource[steam.Game, steam.CreateGame, steam.UpdateGame]
}

type Option func(*Store)

// WithClock replaces the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTimeout bounds every operation; a non-positive value keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New builds a store on the given connection pool.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	s.Kits = newResource[kits.Kit, kits.CreateKit, kits.UpdateKit](s, "kit")
	s.SubAssemblies = newResource[kits.SubAssembly, kits.CreateSubAssembly, kits.UpdateSubAssembly](s, "sub_assembly")
	s.KitParts = newResource[kits.KitPart, kits.CreateKitPart, kits.UpdateKitPart](s, "kit_part")
	s.Runners = newResource[kits.Runner, kits.CreateRunner, kits.UpdateRunner](s, "runner")
	s.Colors = newResource[kits.Color, kits.CreateColor, kits.UpdateColor](s, "color")
	s.Requirements = newResource[kits.Requirement, kits.CreateRequirement, kits.UpdateRequirement](s, "requirement")
	s.SteamGames = newResource[steam.Game, steam.CreateGame, steam.UpdateGame](s, "steam_game")
	return s
}

// clock is read once per operation. Postgres keeps microseconds, so the value handed
// back equals the value read later.
func (s *Store) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// tx runs fn in one transaction bounded by the store timeout. The transaction is
// rolled back when fn fails or the deadline passes.
func (s *Store) tx(ctx context.Context, resource string, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return classify(ctx, resource, s.db.WithContext(ctx).Transaction(fn))
}

// run executes a single statement outside an explicit transaction.
func (s *Store) run(ctx context.Context, resource string, fn func(db *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return classify(ctx, resource, fn(s.db.WithContext(ctx)))
}

// ownedBy restricts the current table to the rows of ownerID.
func ownedBy(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "user_id"},
			Value:  ownerID,
		})
	}
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.run(ctx, "database", func(db *gorm.DB) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(db.Statement.Context)
	})
}
