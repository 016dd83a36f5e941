// service содержит бизнес-логику catalog-сервиса.
package service

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pribylovaa/catalog-service/internal/cache"
	"github.com/pribylovaa/catalog-service/internal/config"
	"github.com/pribylovaa/catalog-service/internal/storage"
)

var (
	// ErrNotFound - товар отсутствует (только при выключенном fallback_to_sample).
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument - неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable - хранилище не смогло выполнить запрос.
	ErrUnavailable = errors.New("store unavailable")
)

// Service - бизнес-логика каталога поверх хранилища документов.
type Service struct {
	storage  storage.Storage
	cache    cache.Cache
	cfg      config.Config
	validate *validator.Validate
	now      func() time.Time
}

// New создает новый экземпляр Service. nil-кэш заменяется на cache.Nop.
func New(storage storage.Storage, c cache.Cache, cfg config.Config) *Service {
	if c == nil {
		c = cache.Nop{}
	}

	return &Service{
		storage:  storage,
		cache:    c,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}
