package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

const uniqueViolation = "23505"

// translate maps driver and gorm errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

type queryFunc func(*gorm.DB) *gorm.DB

// crud carries the operations every entity repository shares.
type crud[T any] struct {
	db *gorm.DB
}

func (r crud[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

func (r crud[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.find(ctx, nil)
}

func (r crud[T]) Create(ctx context.Context, entity *T) error {
	return translate(r.db.WithContext(ctx).Create(entity).Error)
}

// Update writes every column of entity. The record must already exist.
func (r crud[T]) Update(ctx context.Context, entity *T) error {
	return r.update(ctx, entity)
}

func (r crud[T]) Delete(ctx context.Context, id uint) error {
	var entity T
	res := r.db.WithContext(ctx).Delete(&entity, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r crud[T]) update(ctx context.Context, entity *T, omit ...string) error {
	q := r.db.WithContext(ctx).Model(entity).Select("*").Omit(append([]string{"created_at"}, omit...)...)
	res := q.Updates(entity)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r crud[T]) find(ctx context.Context, fn queryFunc) ([]T, error) {
	var out []T
	q := r.db.WithContext(ctx).Model(new(T))
	if fn != nil {
		q = fn(q)
	}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r crud[T]) first(ctx context.Context, fn queryFunc) (*T, error) {
	var entity T
	if err := fn(r.db.WithContext(ctx)).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

func (r crud[T]) count(ctx context.Context, fn queryFunc) (int64, error) {
	var n int64
	if err := fn(r.db.WithContext(ctx).Model(new(T))).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsFold matches term as a case-insensitive substring of any column.
// LIKE wildcards in term match literally.
func containsFold(term string, columns ...string) queryFunc {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	where := strings.Join(clauses, " OR ")
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(where, args...)
	}
}

func eq(column string, value any) queryFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

// between applies optional inclusive bounds on column.
func between[N any](column string, min, max *N) queryFunc {
	return func(db *gorm.DB) *gorm.DB {
		if min != nil {
			db = db.Where(column+" >= ?", *min)
		}
		if max != nil {
			db = db.Where(column+" <= ?", *max)
		}
		return db
	}
}
