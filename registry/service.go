package registry

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// RegisterBotPayload is the creation payload
type RegisterBotPayload struct {
	BotID       string `form:"bot_id" json:"bot_id"`
	Name        string `form:"name" json:"name"`
	BaseURL     string `form:"base_url" json:"base_url"`
	APIUsername string `form:"api_username" json:"api_username"`
	APIPassword string `form:"api_password" json:"api_password"`
}

// Validate will run validation rules
func (p RegisterBotPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.BotID, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.BaseURL, validation.Required, is.URL),
		validation.Field(&p.APIUsername, validation.Length(0, 100)),
	)
}

// UpdateBotPayload is the update payload. Zero fields keep their stored value.
type UpdateBotPayload struct {
	Name        string `form:"name" json:"name"`
	Status      string `form:"status" json:"status"`
	BaseURL     string `form:"base_url" json:"base_url"`
	APIUsername string `form:"api_username" json:"api_username"`
	APIPassword string `form:"api_password" json:"api_password"`
}

// Validate will run validation rules
func (p UpdateBotPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Length(1, 200)),
		validation.Field(&p.BaseURL, is.URL),
		validation.Field(&p.Status, validation.In(StatusRunning, StatusStopped, StatusUnknown)),
	)
}

// BotStore is the slice of the bots repository the service needs
type BotStore interface {
	ListAll(ctx context.Context) ([]*Bot, error)
	GetByBotID(ctx context.Context, botID string) (*Bot, error)
	Create(ctx context.Context, record *Bot, criteria ...repository.InsertCriteria) (*Bot, error)
	UpdateBot(ctx context.Context, record *Bot) (*Bot, error)
	DeleteBot(ctx context.Context, id uuid.UUID) error
}

// Service wraps the bots repository with validation and logging
type Service struct {
	repo   BotStore
	logger Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithServiceLogger overrides the default logger
func WithServiceLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a registry service
func NewService(repo BotStore, opts ...ServiceOption) *Service {
	if repo == nil {
		panic("REGISTRY: service configuration: Bots repository is required.")
	}

	s := &Service{
		repo:   repo,
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// List returns every registered bot
func (s *Service) List(ctx context.Context) ([]*Bot, error) {
	return s.repo.ListAll(ctx)
}

// Get resolves a bot by its operator-facing alias
func (s *Service) Get(ctx context.Context, botID string) (*Bot, error) {
	bot, err := s.repo.GetByBotID(ctx, botID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, errors.New("bot is not registered", errors.CategoryNotFound).
				WithMetadata(map[string]any{"bot_id": botID})
		}
		return nil, err
	}
	return bot, nil
}

// Register validates and stores a new bot registration
func (s *Service) Register(ctx context.Context, payload RegisterBotPayload) (*Bot, error) {
	if err := payload.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid bot registration")
	}

	if _, err := s.repo.GetByBotID(ctx, payload.BotID); err == nil {
		return nil, errors.New("bot is already registered", errors.CategoryConflict).
			WithMetadata(map[string]any{"bot_id": payload.BotID})
	}

	bot := &Bot{
		BotID:       payload.BotID,
		Name:        payload.Name,
		BaseURL:     payload.BaseURL,
		APIUsername: payload.APIUsername,
		APIPassword: payload.APIPassword,
	}

	created, err := s.repo.Create(ctx, bot)
	if err != nil {
		return nil, err
	}

	s.logger.Info("registered bot %s (%s)", created.BotID, created.Name)

	return created, nil
}

// Update validates and applies a partial update to a registration
func (s *Service) Update(ctx context.Context, botID string, payload UpdateBotPayload) (*Bot, error) {
	if err := payload.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid bot update")
	}

	bot, err := s.Get(ctx, botID)
	if err != nil {
		return nil, err
	}

	if payload.Name != "" {
		bot.Name = payload.Name
	}
	if payload.Status != "" {
		bot.Status = payload.Status
	}
	if payload.BaseURL != "" {
		bot.BaseURL = payload.BaseURL
	}
	if payload.APIUsername != "" {
		bot.APIUsername = payload.APIUsername
	}
	if payload.APIPassword != "" {
		bot.APIPassword = payload.APIPassword
	}

	updated, err := s.repo.UpdateBot(ctx, bot)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updated bot %s", botID)

	return updated, nil
}

// Deregister soft deletes a registration
func (s *Service) Deregister(ctx context.Context, botID string) error {
	bot, err := s.Get(ctx, botID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteBot(ctx, bot.ID); err != nil {
		return err
	}

	s.logger.Info("deregistered bot %s", botID)

	return nil
}

// ResolveID maps an alias to the storage key without loading the full record
func (s *Service) ResolveID(ctx context.Context, botID string) (uuid.UUID, error) {
	bot, err := s.Get(ctx, botID)
	if err != nil {
		return uuid.Nil, err
	}
	return bot.ID, nil
}
