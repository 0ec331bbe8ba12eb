package registry

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// StatusRunning means the bot responded to its last status probe
	StatusRunning = "running"
	// StatusStopped means the bot is registered but not serving
	StatusStopped = "stopped"
	// StatusUnknown is the state of a bot never probed
	StatusUnknown = "unknown"
)

// Bot is a registered trading bot. BotID is the operator-facing alias used in
// URLs; ID is the storage key. BaseURL plus the API credentials are what the
// proxy client uses to reach the bot's own REST API.
type Bot struct {
	bun.BaseModel `bun:"table:bots,alias:bot"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	BotID         string     `bun:"bot_id,notnull,unique" json:"bot_id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Status        string     `bun:"status" json:"status,omitempty"`
	BaseURL       string     `bun:"base_url,notnull" json:"base_url,omitempty"`
	APIUsername   string     `bun:"api_username" json:"api_username,omitempty"`
	APIPassword   string     `bun:"api_password" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
