// Package settings stores per-user client preferences. Reads are tolerant:
// unknown fields are ignored and corrupt blobs fall back to defaults, so a
// bad settings write can never break a player's account.
package settings

import "encoding/json"

type Settings struct {
	MusicVolume       int  `json:"musicVolume"`
	EffectsVolume     int  `json:"effectsVolume"`
	ShowTooltips      bool `json:"showTooltips"`
	ShowNotifications bool `json:"showNotifications"`
}

func Defaults() Settings {
	return Settings{
		MusicVolume:       70,
		EffectsVolume:     80,
		ShowTooltips:      true,
		ShowNotifications: true,
	}
}

// Patch is a partial settings update. Nil fields keep their current value.
type Patch struct {
	MusicVolume       *int  `json:"musicVolume"`
	EffectsVolume     *int  `json:"effectsVolume"`
	ShowTooltips      *bool `json:"showTooltips"`
	ShowNotifications *bool `json:"showNotifications"`
}

func (p Patch) Apply(s Settings) Settings {
	if p.MusicVolume != nil {
		s.MusicVolume = clampVolume(*p.MusicVolume)
	}
	if p.EffectsVolume != nil {
		s.EffectsVolume = clampVolume(*p.EffectsVolume)
	}
	if p.ShowTooltips != nil {
		s.ShowTooltips = *p.ShowTooltips
	}
	if p.ShowNotifications != nil {
		s.ShowNotifications = *p.ShowNotifications
	}
	return s
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Merge layers a stored blob over the defaults. Fields the blob omits keep
// their default; a blob that does not parse yields plain defaults.
func Merge(raw []byte) Settings {
	s := Defaults()
	if len(raw) == 0 {
		return s
	}
	var p Patch
	if err := json.Unmarshal(raw, &p); err != nil {
		return Defaults()
	}
	return p.Apply(s)
}
