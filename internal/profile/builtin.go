package profile

// builtin.go ships starter profiles for the vendors most clubs use. They
// are templates: a club clones one and adjusts headers to match its own
// export settings. Versioned copies live in the database once adopted.

import "github.com/uteam-club/uteam-sub004/internal/metric"

// BuiltIn returns the starter profiles for known vendors.
func BuiltIn() []GpsProfile {
	return []GpsProfile{
		{
			GpsSystem: "Polar",
			Sport:     "football",
			Version:   1,
			ColumnMapping: []ColumnMapping{
				{Type: KindColumn, Name: "Player name", SourceHeader: "Player name", CanonicalKey: "athlete_name", IsVisible: true, Order: 0},
				{Type: KindColumn, Name: "Duration", SourceHeader: "Duration", CanonicalKey: "duration_s", Unit: "hh:mm:ss", IsVisible: true, Order: 1},
				{Type: KindColumn, Name: "Total distance", SourceHeader: "Total distance (km)", CanonicalKey: "total_distance_m", Unit: "km", IsVisible: true, Order: 2},
				{Type: KindColumn, Name: "Max speed", SourceHeader: "Maximum speed (km/h)", CanonicalKey: "max_speed_kmh", Unit: "km/h", IsVisible: true, Order: 3},
				{Type: KindColumn, Name: "Sprints", SourceHeader: "Sprints", CanonicalKey: "sprints_count", Unit: "count", IsVisible: true, Order: 4},
				{Type: KindColumn, Name: "Avg HR", SourceHeader: "Average heart rate (bpm)", CanonicalKey: "avg_heart_rate_bpm", Unit: "bpm", IsVisible: true, Order: 5},
			},
		},
		{
			GpsSystem: "STATSports",
			Sport:     "football",
			Version:   1,
			ColumnMapping: []ColumnMapping{
				{Type: KindColumn, Name: "Player Display Name", SourceHeader: "Player Display Name", CanonicalKey: "athlete_name", IsVisible: true, Order: 0},
				{Type: KindColumn, Name: "Total Distance", SourceHeader: "Total Distance(m)", CanonicalKey: "total_distance_m", Unit: "m", IsVisible: true, Order: 1},
				{Type: KindColumn, Name: "HSR Distance", SourceHeader: "HSR Distance(m)", CanonicalKey: "hsr_distance_m", Unit: "m", IsVisible: true, Order: 2},
				{Type: KindColumn, Name: "Max Speed", SourceHeader: "Max Speed(m/s)", CanonicalKey: "max_speed_kmh", Unit: "m/s", IsVisible: true, Order: 3},
				{Type: KindColumn, Name: "Accelerations", SourceHeader: "Accelerations", CanonicalKey: "accelerations_count", Unit: "count", IsVisible: true, Order: 4},
				{Type: KindColumn, Name: "Decelerations", SourceHeader: "Decelerations", CanonicalKey: "decelerations_count", Unit: "count", IsVisible: true, Order: 5},
				{Type: KindFormula, Name: "HSR %", CanonicalKey: "hsr_ratio", IsVisible: true, Order: 6,
					Formula: &metric.Formula{Operation: metric.OpDivide, Operand1: "hsr_distance_m", Operand2: "total_distance_m"}},
			},
		},
		{
			GpsSystem: "B-SIGHT",
			Sport:     "football",
			Version:   1,
			ColumnMapping: []ColumnMapping{
				{Type: KindColumn, Name: "Player", SourceHeader: "Player", CanonicalKey: "athlete_name", IsVisible: true, Order: 0},
				{Type: KindColumn, Name: "Time", SourceHeader: "Time", CanonicalKey: "duration_s", Unit: "mm:ss", IsVisible: true, Order: 1},
				{Type: KindColumn, Name: "Distance", SourceHeader: "Distance", CanonicalKey: "total_distance_m", Unit: "m", IsVisible: true, Order: 2},
				{Type: KindColumn, Name: "HSR", SourceHeader: "HSR", CanonicalKey: "hsr_distance_m", Unit: "m", IsVisible: true, Order: 3},
				{Type: KindColumn, Name: "Sprint distance", SourceHeader: "Sprint distance", CanonicalKey: "sprint_distance_m", Unit: "m", IsVisible: true, Order: 4},
				{Type: KindColumn, Name: "Max speed", SourceHeader: "Max speed", CanonicalKey: "max_speed_kmh", Unit: "km/h", IsVisible: true, Order: 5},
				{Type: KindColumn, Name: "Sprints", SourceHeader: "Sprints", CanonicalKey: "sprints_count", Unit: "count", IsVisible: true, Order: 6},
			},
		},
	}
}
