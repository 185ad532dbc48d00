package models

import "fmt"

// CareGuide is the structured care guide generated once per plant.
// Field names follow the JSON schema the model is asked to produce.
type CareGuide struct {
	Overview     string `json:"overview"`
	Difficulty   string `json:"difficulty"` // Beginner | Intermediate | Expert
	Type         string `json:"type"`
	Lifespan     string `json:"lifespan"`
	NativeRegion string `json:"nativeRegion"`

	Soil        SoilGuide        `json:"soil"`
	Watering    WateringGuide    `json:"watering"`
	Sunlight    SunlightGuide    `json:"sunlight"`
	Temperature TemperatureGuide `json:"temperature"`
	Fertilizer  FertilizerGuide  `json:"fertilizer"`
	Potting     PottingGuide     `json:"potting"`
	Pruning     PruningGuide     `json:"pruning"`
	Propagation PropagationGuide `json:"propagation"`

	CommonProblems []Problem         `json:"commonProblems"`
	Pests          []Pest            `json:"pests"`
	GrowthTimeline []TimelineEntry   `json:"growthTimeline"`
	Companions     []string          `json:"companions"`
	Toxicity       ToxicityGuide     `json:"toxicity"`
	Reminders      *ReminderSchedule `json:"reminderSchedule,omitempty"`
}

type SoilGuide struct {
	Type string `json:"type"`
	PH   string `json:"ph"`
	Mix  string `json:"mix"`
	Tips string `json:"tips"`
}

type WateringGuide struct {
	Frequency   string   `json:"frequency"`
	Amount      string   `json:"amount"`
	Method      string   `json:"method"`
	OverdoSigns []string `json:"overdoSigns"`
	UnderdoSign []string `json:"underdoSigns"`
	Tips        string   `json:"tips"`
}

type SunlightGuide struct {
	Requirement     string `json:"requirement"`
	HoursPerDay     string `json:"hoursPerDay"`
	IndoorPlacement string `json:"indoorPlacement"`
	Tips            string `json:"tips"`
}

type TemperatureGuide struct {
	Ideal         string `json:"ideal"`
	Minimum       string `json:"minimum"`
	Maximum       string `json:"maximum"`
	Humidity      string `json:"humidity"`
	FrostTolerant bool   `json:"frostTolerant"`
	Tips          string `json:"tips"`
}

type FertilizerGuide struct {
	Type      string `json:"type"`
	Frequency string `json:"frequency"`
	Season    string `json:"season"`
	Organic   string `json:"organic"`
	Tips      string `json:"tips"`
}

type PottingGuide struct {
	PotSize            string `json:"potSize"`
	Material           string `json:"material"`
	RepottingFrequency string `json:"repottingFrequency"`
	RepottingSign      string `json:"repottingSign"`
	Tips               string `json:"tips"`
}

type PruningGuide struct {
	Needed    bool   `json:"needed"`
	Frequency string `json:"frequency"`
	Method    string `json:"method"`
	Tips      string `json:"tips"`
}

type PropagationGuide struct {
	Methods    []string `json:"methods"`
	BestMethod string   `json:"bestMethod"`
	BestSeason string   `json:"bestSeason"`
	Steps      []string `json:"steps"`
}

type Problem struct {
	Problem  string `json:"problem"`
	Symptoms string `json:"symptoms"`
	Cause    string `json:"cause"`
	Solution string `json:"solution"`
}

type Pest struct {
	Pest      string `json:"pest"`
	Symptoms  string `json:"symptoms"`
	Treatment string `json:"treatment"`
}

type TimelineEntry struct {
	Period      string `json:"period"`
	Expectation string `json:"expectation"`
}

type ToxicityGuide struct {
	Toxic    bool   `json:"toxic"`
	ToHumans string `json:"toHumans"`
	ToPets   string `json:"toPets"`
	Details  string `json:"details"`
}

// ReminderSchedule gives the reminder cadences the scheduler runs on.
type ReminderSchedule struct {
	WateringDays    int `json:"wateringDays"`
	FertilizingDays int `json:"fertilizingDays"`
	RepottingMonths int `json:"repottingMonths"`
}

// Validate checks that the cadences are usable: watering and fertilizing
// must be a positive number of days, repotting a positive number of months.
func (r *ReminderSchedule) Validate() error {
	if r.WateringDays <= 0 {
		return fmt.Errorf("wateringDays must be positive, got %d", r.WateringDays)
	}
	if r.FertilizingDays <= 0 {
		return fmt.Errorf("fertilizingDays must be positive, got %d", r.FertilizingDays)
	}
	if r.RepottingMonths <= 0 {
		return fmt.Errorf("repottingMonths must be positive, got %d", r.RepottingMonths)
	}
	return nil
}
