package systems

import (
	"log/slog"

	"github.com/averre/globeflow/field"
)

// OverlayMode selects what the raster overlay shows. Particles always
// follow the active wind level regardless of mode.
type OverlayMode int

const (
	ModeWind OverlayMode = iota
	ModeTemperature
	ModeNone
)

func (m OverlayMode) String() string {
	switch m {
	case ModeWind:
		return "wind"
	case ModeTemperature:
		return "temperature"
	case ModeNone:
		return "none"
	}
	return "invalid"
}

// LevelManager holds the loaded wind and temperature levels and the
// current selection. The wind and temperature lists are independent;
// the shared level index is clamped per list at read time, so a
// mismatch in counts between the two kinds is tolerated.
type LevelManager struct {
	wind []field.WindLevel
	temp []field.TemperatureLevel

	index int
	mode  OverlayMode
}

func NewLevelManager() *LevelManager {
	return &LevelManager{mode: ModeWind}
}

// AddWind appends a wind level. Malformed levels are rejected with a
// logged warning so remaining levels can continue to load.
func (lm *LevelManager) AddWind(lvl field.WindLevel) bool {
	if lvl.Wind == nil {
		slog.Warn("rejecting wind level", "label", lvl.Label, "reason", "nil field")
		return false
	}
	if err := lvl.Wind.Header().Validate(); err != nil {
		slog.Warn("rejecting wind level", "label", lvl.Label, "err", err)
		return false
	}
	lm.wind = append(lm.wind, lvl)
	return true
}

// AddTemperature appends a temperature level, rejecting malformed ones
// the same way AddWind does.
func (lm *LevelManager) AddTemperature(lvl field.TemperatureLevel) bool {
	if lvl.Temp == nil {
		slog.Warn("rejecting temperature level", "label", lvl.Label, "reason", "nil field")
		return false
	}
	if err := lvl.Temp.Header().Validate(); err != nil {
		slog.Warn("rejecting temperature level", "label", lvl.Label, "err", err)
		return false
	}
	lm.temp = append(lm.temp, lvl)
	return true
}

func (lm *LevelManager) WindCount() int        { return len(lm.wind) }
func (lm *LevelManager) TemperatureCount() int { return len(lm.temp) }

func (lm *LevelManager) Mode() OverlayMode { return lm.mode }
func (lm *LevelManager) Index() int        { return lm.index }

// SetMode switches the overlay mode and reports whether anything
// changed. A change must invalidate the overlay and clear trails.
func (lm *LevelManager) SetMode(m OverlayMode) bool {
	if m == lm.mode {
		return false
	}
	lm.mode = m
	return true
}

// CycleMode advances wind -> temperature -> none -> wind.
func (lm *LevelManager) CycleMode() OverlayMode {
	switch lm.mode {
	case ModeWind:
		lm.mode = ModeTemperature
	case ModeTemperature:
		lm.mode = ModeNone
	case ModeNone:
		lm.mode = ModeWind
	}
	return lm.mode
}

// SelectLevel sets the shared level index, clamped to the list the
// current mode reads from, and reports whether the selection changed.
func (lm *LevelManager) SelectLevel(i int) bool {
	i = clampIndex(i, lm.activeLen())
	if i == lm.index {
		return false
	}
	lm.index = i
	return true
}

// StepLevel moves the selection by delta levels.
func (lm *LevelManager) StepLevel(delta int) bool {
	return lm.SelectLevel(lm.index + delta)
}

// ActiveWind returns the wind field driving particle advection, or nil
// when no wind level loaded.
func (lm *LevelManager) ActiveWind() *field.VectorField {
	if len(lm.wind) == 0 {
		return nil
	}
	return lm.wind[clampIndex(lm.index, len(lm.wind))].Wind
}

// ActiveTemperature returns the selected temperature field, or nil when
// no temperature level loaded.
func (lm *LevelManager) ActiveTemperature() *field.ScalarField {
	if len(lm.temp) == 0 {
		return nil
	}
	return lm.temp[clampIndex(lm.index, len(lm.temp))].Temp
}

// ActiveLabel names the selected level for the HUD. In none mode the
// wind label is shown since particles still follow it.
func (lm *LevelManager) ActiveLabel() string {
	switch lm.mode {
	case ModeWind, ModeNone:
		if len(lm.wind) == 0 {
			return ""
		}
		return lm.wind[clampIndex(lm.index, len(lm.wind))].Label
	case ModeTemperature:
		if len(lm.temp) == 0 {
			return ""
		}
		return lm.temp[clampIndex(lm.index, len(lm.temp))].Label
	}
	return ""
}

// LevelLabels lists the labels of the list the current mode reads from,
// for the level picker.
func (lm *LevelManager) LevelLabels() []string {
	var labels []string
	switch lm.mode {
	case ModeWind, ModeNone:
		for _, lvl := range lm.wind {
			labels = append(labels, lvl.Label)
		}
	case ModeTemperature:
		for _, lvl := range lm.temp {
			labels = append(labels, lvl.Label)
		}
	}
	return labels
}

func (lm *LevelManager) activeLen() int {
	switch lm.mode {
	case ModeWind, ModeNone:
		return len(lm.wind)
	case ModeTemperature:
		return len(lm.temp)
	}
	return 0
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
