package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
)

// Postgres implements Store on a gorm connection. The no-overlap invariant
// is enforced inside a transaction that locks candidate rows, so two
// concurrent requests for the same window cannot both commit.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Migrate() error {
	return p.db.AutoMigrate(&domain.User{}, &domain.Room{}, &domain.Booking{}, &domain.Activity{})
}

// translate maps gorm errors onto the domain taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
}

// Users

func (p *Postgres) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := p.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := p.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := p.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u *domain.User) error {
	return translate(p.db.WithContext(ctx).Create(u).Error)
}

func (p *Postgres) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := p.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Rooms

func (p *Postgres) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	var r domain.Room
	if err := p.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (p *Postgres) ListActiveRooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	if err := p.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (p *Postgres) CreateRoom(ctx context.Context, r *domain.Room) error {
	return translate(p.db.WithContext(ctx).Create(r).Error)
}

func (p *Postgres) UpdateRoom(ctx context.Context, r *domain.Room) error {
	res := p.db.WithContext(ctx).Model(&domain.Room{}).Where("id = ?", r.ID).Select("*").Omit("id", "created_at").Updates(r)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("room %d", r.ID)
	}
	return nil
}

func (p *Postgres) DeleteRoom(ctx context.Context, id int64) error {
	res := p.db.WithContext(ctx).Delete(&domain.Room{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("room %d", id)
	}
	return nil
}

// Bookings

func (p *Postgres) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := p.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (p *Postgres) ListBookingsByRoom(ctx context.Context, roomID int64, from, to *time.Time) ([]domain.Booking, error) {
	qb := p.db.WithContext(ctx).Where("room_id = ?", roomID)
	if from != nil && to != nil {
		qb = qb.Where("start_time < ? AND end_time > ?", *to, *from)
	}
	var out []domain.Booking
	if err := qb.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (p *Postgres) ListBookingsByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (p *Postgres) ListAllBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := p.db.WithContext(ctx).Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (p *Postgres) CreateBooking(ctx context.Context, b *domain.Booking) error {
	return p.writeBookingExclusive(ctx, b, func(tx *gorm.DB) error {
		return tx.Create(b).Error
	}, 0)
}

func (p *Postgres) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	return p.writeBookingExclusive(ctx, b, func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Select("*").Omit("id", "created_at").Updates(b)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}, b.ID)
}

// writeBookingExclusive runs write inside a transaction. When the booking is
// confirmed it first locks any confirmed row on the same room that would
// overlap, turning a lost race into a reported conflict.
func (p *Postgres) writeBookingExclusive(ctx context.Context, b *domain.Booking, write func(tx *gorm.DB) error, excludeID int64) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if b.Status == domain.StatusConfirmed {
			var existing domain.Booking
			q := tx.Model(&domain.Booking{}).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("room_id = ? AND status = ?", b.RoomID, domain.StatusConfirmed).
				Where("start_time < ? AND end_time > ?", b.EndTime, b.StartTime)
			if excludeID != 0 {
				q = q.Where("id <> ?", excludeID)
			}
			err := q.Take(&existing).Error
			if err == nil {
				return domain.Conflictf("room %d is booked from %s to %s",
					b.RoomID, existing.StartTime.Format(time.RFC3339), existing.EndTime.Format(time.RFC3339))
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return write(tx)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrConflict) {
		return err
	}
	return translate(err)
}

func (p *Postgres) DeleteBooking(ctx context.Context, id int64) error {
	res := p.db.WithContext(ctx).Delete(&domain.Booking{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("booking %d", id)
	}
	return nil
}

// Activities

func (p *Postgres) AppendActivity(ctx context.Context, a *domain.Activity) error {
	return translate(p.db.WithContext(ctx).Create(a).Error)
}

func (p *Postgres) ListRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []domain.Activity
	if err := p.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}
