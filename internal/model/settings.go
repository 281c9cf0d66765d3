package model

// SettingsID is the fixed key of the settings singleton record.
const SettingsID = "app-settings"

// Settings is the persisted user-preference singleton. Reads never return
// nil: absent or partial records are merged over DefaultSettings.
type Settings struct {
	ID                     string `json:"id" db:"id"`
	Theme                  string `json:"theme" db:"theme"`
	CompressImages         bool   `json:"compress_images" db:"compress_images"`
	CompressArchivedImages bool   `json:"compress_archived_images" db:"compress_archived_images"`
	VoiceQuality           string `json:"voice_quality" db:"voice_quality"`
}

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() Settings {
	return Settings{
		ID:                     SettingsID,
		Theme:                  "system",
		CompressImages:         true,
		CompressArchivedImages: true,
		VoiceQuality:           "standard",
	}
}
