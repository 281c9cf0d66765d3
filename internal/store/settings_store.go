package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ptran/checkmate/internal/model"
)

// GetSettings returns the settings singleton merged over defaults. It
// never returns nil settings: an absent record yields the defaults.
func (s *SQLiteStore) GetSettings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()

	var (
		theme, voiceQuality       string
		compressInt, compressArch int
	)
	err := s.db.QueryRowxContext(ctx,
		"SELECT theme, compress_images, compress_archived_images, voice_quality FROM settings WHERE id = ?",
		model.SettingsID,
	).Scan(&theme, &compressInt, &compressArch, &voiceQuality)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("getting settings: %w", err)
	}

	if theme != "" {
		settings.Theme = theme
	}
	if voiceQuality != "" {
		settings.VoiceQuality = voiceQuality
	}
	settings.CompressImages = compressInt != 0
	settings.CompressArchivedImages = compressArch != 0
	return settings, nil
}

// PutSettings persists the settings singleton under its fixed key.
func (s *SQLiteStore) PutSettings(ctx context.Context, settings model.Settings) error {
	settings.ID = model.SettingsID

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (id, theme, compress_images, compress_archived_images, voice_quality)
		VALUES (?, ?, ?, ?, ?)`,
		settings.ID, settings.Theme,
		boolToInt(settings.CompressImages), boolToInt(settings.CompressArchivedImages),
		settings.VoiceQuality,
	)
	if err != nil {
		return fmt.Errorf("putting settings: %w", err)
	}
	return nil
}
