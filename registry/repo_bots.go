package registry

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Bots interface {
	repository.Repository[*Bot]

	GetByBotID(ctx context.Context, botID string) (*Bot, error)
	GetByBotIDTx(ctx context.Context, tx bun.IDB, botID string) (*Bot, error)

	ListAll(ctx context.Context) ([]*Bot, error)

	Create(ctx context.Context, record *Bot, criteria ...repository.InsertCriteria) (*Bot, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Bot, criteria ...repository.InsertCriteria) (*Bot, error)

	UpdateBot(ctx context.Context, record *Bot) (*Bot, error)
	DeleteBot(ctx context.Context, id uuid.UUID) error
}

type bots struct {
	repository.Repository[*Bot]
	db *bun.DB
}

var (
	_ Bots                        = (*bots)(nil)
	_ repository.Repository[*Bot] = (*bots)(nil)
)

func NewBotsRepository(db *bun.DB) Bots {
	repo := repository.NewRepository[*Bot](db, repository.ModelHandlers[*Bot]{
		NewRecord: func() *Bot { return &Bot{} },
		GetID: func(b *Bot) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Bot, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
		GetIdentifier: func() string {
			return "bot_id"
		},
	})

	return &bots{
		Repository: repo,
		db:         db,
	}
}

func (r *bots) GetByBotID(ctx context.Context, botID string) (*Bot, error) {
	return r.GetByBotIDTx(ctx, r.db, botID)
}

func (r *bots) GetByBotIDTx(ctx context.Context, tx bun.IDB, botID string) (*Bot, error) {
	record := &Bot{}
	err := tx.NewSelect().Model(record).
		Where("?TableAlias.bot_id = ?", botID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"bot_id": botID,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *bots) ListAll(ctx context.Context) ([]*Bot, error) {
	records := []*Bot{}
	err := r.db.NewSelect().Model(&records).
		Order("bot.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *bots) Create(ctx context.Context, record *Bot, criteria ...repository.InsertCriteria) (*Bot, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *bots) CreateTx(ctx context.Context, tx bun.IDB, record *Bot, criteria ...repository.InsertCriteria) (*Bot, error) {
	prepareBotDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *bots) UpdateBot(ctx context.Context, record *Bot) (*Bot, error) {
	return r.Repository.UpdateTx(ctx, r.db, record, repository.UpdateByID(record.ID.String()))
}

func (r *bots) DeleteBot(ctx context.Context, id uuid.UUID) error {
	// soft delete, the model carries a deleted_at column
	_, err := r.db.NewDelete().
		Model((*Bot)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return err
}

func prepareBotDefaults(record *Bot) {
	if record == nil {
		return
	}

	if record.Status == "" {
		record.Status = StatusUnknown
	}

	if record.ID == uuid.Nil {
		if id, err := hashid.NewUUID(record.BotID); err == nil {
			record.ID = id
		} else {
			record.ID = uuid.New()
		}
	}
}
