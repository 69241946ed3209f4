package scene

import "time"

// ViewMode selects the viewport coloring scheme.
type ViewMode string

const (
	ViewNormal  ViewMode = "normal"
	ViewHealth  ViewMode = "health"
	ViewHeatmap ViewMode = "heatmap"
)

// HealthStatus is the user-assigned condition rating of a component.
type HealthStatus string

const (
	HealthGood     HealthStatus = "good"
	HealthFair     HealthStatus = "fair"
	HealthPoor     HealthStatus = "poor"
	HealthCritical HealthStatus = "critical"
)

// RecordType classifies a maintenance record.
type RecordType string

const (
	RecordInspection  RecordType = "inspection"
	RecordRepair      RecordType = "repair"
	RecordReplacement RecordType = "replacement"
	RecordCleaning    RecordType = "cleaning"
)

// RecordStatus tracks a record's workflow state.
type RecordStatus string

const (
	StatusPending    RecordStatus = "pending"
	StatusInProgress RecordStatus = "in_progress"
	StatusCompleted  RecordStatus = "completed"
)

// RecordInfo is the slice of a maintenance record the coloring policy
// needs; the persistence layer supplies these already resolved.
type RecordInfo struct {
	Type      RecordType
	Status    RecordStatus
	Timestamp time.Time
}

// State is the resolved in-memory input the scene consumes: per-component
// records and health plus the transient view/selection state. Stale
// componentIds (from shrunk configs) are tolerated and simply never match
// a generated component.
type State struct {
	ViewMode   ViewMode
	SelectedID string
	HoveredID  string
	Records    map[string][]RecordInfo
	Health     map[string]HealthStatus
	// Now anchors the heatmap clock; the zero value means time.Now().
	Now time.Time
}

func (s *State) now() time.Time {
	if s.Now.IsZero() {
		return time.Now()
	}
	return s.Now
}

// Material is the resolved render appearance of one component.
type Material struct {
	Color             string  `json:"color"`
	Emissive          string  `json:"emissive,omitempty"`
	EmissiveIntensity float64 `json:"emissiveIntensity,omitempty"`
	// Pulse marks the selection highlight; the per-frame tick modulates
	// EmissiveIntensity sinusoidally for pulsing materials.
	Pulse bool `json:"pulse,omitempty"`
}

const (
	colorGood     = "#22c55e"
	colorFair     = "#eab308"
	colorPoor     = "#f97316"
	colorCritical = "#ef4444"

	colorSelected   = "#facc15"
	colorRecordTint = "#3b82f6"
)

// NeverInspectedDays is the sentinel age for components with no completed
// inspection; it lands in the hottest heatmap tier.
const NeverInspectedDays = 100000

var healthColors = map[HealthStatus]string{
	HealthGood:     colorGood,
	HealthFair:     colorFair,
	HealthPoor:     colorPoor,
	HealthCritical: colorCritical,
}

// DaysSinceInspection returns the floor of whole days since the most
// recent completed inspection among records, or NeverInspectedDays when
// no record qualifies.
func DaysSinceInspection(records []RecordInfo, now time.Time) int {
	var latest time.Time
	found := false
	for _, r := range records {
		if r.Type != RecordInspection || r.Status != StatusCompleted {
			continue
		}
		if !found || r.Timestamp.After(latest) {
			latest = r.Timestamp
			found = true
		}
	}
	if !found {
		return NeverInspectedDays
	}
	return int(now.Sub(latest).Hours() / 24)
}

// HeatmapColor buckets an inspection age into the four recency tiers.
func HeatmapColor(days int) string {
	switch {
	case days <= 7:
		return colorGood
	case days <= 30:
		return colorFair
	case days <= 90:
		return colorPoor
	default:
		return colorCritical
	}
}

// ResolveMaterial resolves the render material for one component.
// Precedence: health view (with an entry) wins over everything in health
// mode; heatmap mode always recolors by inspection recency; normal mode
// layers selection above the has-records tint above the base kind color.
func ResolveMaterial(componentID string, baseColor string, st *State) Material {
	switch st.ViewMode {
	case ViewHealth:
		if status, ok := st.Health[componentID]; ok {
			c := healthColors[status]
			return Material{Color: c, Emissive: c, EmissiveIntensity: 0.4}
		}
	case ViewHeatmap:
		days := DaysSinceInspection(st.Records[componentID], st.now())
		c := HeatmapColor(days)
		return Material{Color: c, Emissive: c, EmissiveIntensity: 0.35}
	}

	if st.ViewMode == ViewNormal || st.ViewMode == ViewHealth {
		if componentID == st.SelectedID {
			return Material{Color: baseColor, Emissive: colorSelected, EmissiveIntensity: 0.8, Pulse: true}
		}
		if len(st.Records[componentID]) > 0 {
			return Material{Color: baseColor, Emissive: colorRecordTint, EmissiveIntensity: 0.25}
		}
	}
	return Material{Color: baseColor}
}

// BaseColor maps a component kind to its configured base color.
func (c RackConfig) BaseColor(kind Kind) string {
	switch kind {
	case KindBeam:
		return c.BeamColor
	case KindCrossbar:
		return c.CrossbarColor
	case KindDeck:
		return c.DeckColor
	case KindPallet:
		return c.PalletColor
	case KindMarker:
		return colorRecordTint
	default:
		return c.FrameColor
	}
}
