// Package rediscache garde en Redis le catalogue public des cours.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rogerbox/rogerbox/internal/domain"
)

const (
	KeyCourses        = "rogerbox:cache:courses"
	DefaultCatalogTTL = 5 * time.Minute
)

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// CatalogCache est best-effort : à la première erreur Redis il se désactive
// et les lectures repartent sur la base. Une annulation côté appelant ne compte pas.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	mu       sync.RWMutex
	disabled bool
}

// New ne renvoie jamais d'erreur : Redis injoignable donne un cache désactivé.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) *CatalogCache {
	logger = logger.With().Str("component", "catalog_cache").Logger()
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unavailable, catalog cache disabled")
		_ = client.Close()
		return &CatalogCache{ttl: ttl, logger: logger, disabled: true}
	}

	logger.Info().Str("addr", cfg.Addr).Dur("ttl", ttl).Msg("catalog cache ready")
	return &CatalogCache{client: client, ttl: ttl, logger: logger}
}

func (c *CatalogCache) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

func (c *CatalogCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *CatalogCache) fail(err error, op string) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.logger.Debug().Err(err).Str("op", op).Msg("redis call aborted by caller")
		return
	}
	c.logger.Warn().Err(err).Str("op", op).Msg("redis error, disabling catalog cache")
	c.mu.Lock()
	c.disabled = true
	c.mu.Unlock()
}

func (c *CatalogCache) GetCourses(ctx context.Context) ([]domain.Course, bool) {
	if !c.Available() {
		return nil, false
	}
	data, err := c.client.Get(ctx, KeyCourses).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.fail(err, "get")
		return nil, false
	}
	var cached []cachedCourse
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Debug().Err(err).Msg("invalid cached catalog")
		return nil, false
	}
	out := make([]domain.Course, 0, len(cached))
	for _, cc := range cached {
		out = append(out, cc.toDomain())
	}
	return out, true
}

func (c *CatalogCache) SetCourses(ctx context.Context, courses []domain.Course) {
	if !c.Available() {
		return
	}
	data, err := json.Marshal(toCached(courses))
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, KeyCourses, data, c.ttl).Err(); err != nil {
		c.fail(err, "set")
	}
}

// Invalidate survit à l'annulation de la requête admin : sinon le catalogue
// resterait périmé jusqu'au TTL.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if !c.Available() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := c.client.Del(ctx, KeyCourses).Err(); err != nil {
		c.fail(err, "del")
	}
}

// cachedCourse fige le format JSON stocké, indépendamment de domain.Course.
type cachedCourse struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       string    `json:"level"`
	CoverURL    string    `json:"coverUrl"`
	IsPublished bool      `json:"isPublished"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCached(courses []domain.Course) []cachedCourse {
	out := make([]cachedCourse, 0, len(courses))
	for _, c := range courses {
		out = append(out, cachedCourse{
			ID:          c.ID,
			Slug:        c.Slug,
			Title:       c.Title,
			Description: c.Description,
			Level:       string(c.Level),
			CoverURL:    c.CoverURL,
			IsPublished: c.IsPublished,
			Position:    c.Position,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return out
}

func (c cachedCourse) toDomain() domain.Course {
	return domain.Course{
		ID:          c.ID,
		Slug:        c.Slug,
		Title:       c.Title,
		Description: c.Description,
		Level:       domain.CourseLevel(c.Level),
		CoverURL:    c.CoverURL,
		IsPublished: c.IsPublished,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Noop est utilisé quand Redis n'est pas configuré.
type Noop struct{}

func (Noop) GetCourses(context.Context) ([]domain.Course, bool) { return nil, false }
func (Noop) SetCourses(context.Context, []domain.Course) {}
func (Noop) Invalidate(context.Context) {}
