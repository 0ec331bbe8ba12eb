package registry

import (
	"context"
	"encoding/xml"
	"io"
	"os"

	"github.com/goliatone/go-errors"
)

// Snapshot is the XML exchange format for a bot fleet. The live registry is
// the database; snapshots exist so fleets can be exported and re-imported.
type Snapshot struct {
	XMLName xml.Name      `xml:"bots"`
	Bots    []SnapshotBot `xml:"bot"`
}

// SnapshotBot is one registration in a snapshot. Passwords travel in
// snapshots because a re-imported fleet must be reachable again.
type SnapshotBot struct {
	BotID       string `xml:"id"`
	Name        string `xml:"name"`
	BaseURL     string `xml:"base-url"`
	APIUsername string `xml:"api-username,omitempty"`
	APIPassword string `xml:"api-password,omitempty"`
}

// ReadSnapshot decodes a snapshot document
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	snapshot := &Snapshot{}

	if err := xml.NewDecoder(r).Decode(snapshot); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to decode bot snapshot")
	}

	return snapshot, nil
}

// WriteSnapshot renders the given registrations as a snapshot document
func WriteSnapshot(w io.Writer, records []*Bot) error {
	snapshot := &Snapshot{
		Bots: make([]SnapshotBot, 0, len(records)),
	}

	for _, bot := range records {
		snapshot.Bots = append(snapshot.Bots, SnapshotBot{
			BotID:       bot.BotID,
			Name:        bot.Name,
			BaseURL:     bot.BaseURL,
			APIUsername: bot.APIUsername,
			APIPassword: bot.APIPassword,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(snapshot); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode bot snapshot")
	}

	return enc.Flush()
}

// ReadSnapshotFile reads a snapshot from disk
func ReadSnapshotFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to open bot snapshot")
	}
	defer f.Close()

	return ReadSnapshot(f)
}

// WriteSnapshotFile writes a snapshot to disk
func WriteSnapshotFile(path string, records []*Bot) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create bot snapshot")
	}
	defer f.Close()

	return WriteSnapshot(f, records)
}

// Import registers every snapshot entry that is not already present.
// Existing registrations are left untouched. It returns the count of new
// registrations.
func (s *Service) Import(ctx context.Context, snapshot *Snapshot) (int, error) {
	if snapshot == nil {
		return 0, nil
	}

	imported := 0
	for _, entry := range snapshot.Bots {
		if _, err := s.repo.GetByBotID(ctx, entry.BotID); err == nil {
			s.logger.Debug("snapshot import skipped existing bot %s", entry.BotID)
			continue
		}

		_, err := s.Register(ctx, RegisterBotPayload{
			BotID:       entry.BotID,
			Name:        entry.Name,
			BaseURL:     entry.BaseURL,
			APIUsername: entry.APIUsername,
			APIPassword: entry.APIPassword,
		})
		if err != nil {
			return imported, errors.Wrap(err, errors.CategoryBadInput, "failed to import bot snapshot entry").
				WithMetadata(map[string]any{"bot_id": entry.BotID})
		}

		imported++
	}

	s.logger.Info("imported %d bots from snapshot", imported)

	return imported, nil
}

// Export renders the full registry into a snapshot document
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}

	return WriteSnapshot(w, records)
}
