package ai

import "fmt"

// Prompt builders are pure functions so the exact text sent to the model
// can be tested without touching the network. Structured prompts always
// demand a bare JSON object: the extractor recovers from fences and
// surrounding prose, but compliance is requested up front.

// IdentifyByNamePrompt asks the model to resolve a typed plant name.
func IdentifyByNamePrompt(name string) string {
	return fmt.Sprintf(`You are a professional botanist. A user typed "%s" as a plant name.
Identify the exact plant and return ONLY this JSON (no extra text, no markdown fences):
{
  "identified": true,
  "commonName": "Most common name",
  "scientificName": "Scientific binomial name",
  "family": "Plant family",
  "confidence": 95,
  "alternatives": [{"commonName": "Alt name", "scientificName": "Alt scientific", "description": "brief description"}],
  "note": "Clarification if ambiguous"
}
If not a plant, set identified to false.`, name)
}

// IdentifyByImagePrompt asks the model to identify the attached photo.
// The image itself travels as a separate message part.
func IdentifyByImagePrompt() string {
	return `You are a botanist. Identify this plant image and return ONLY this JSON (no extra text, no markdown fences):
{
  "identified": true,
  "commonName": "Most common name",
  "scientificName": "Scientific binomial name",
  "family": "Plant family",
  "confidence": 90,
  "identificationDetails": "Key identifying features",
  "alternatives": [{"commonName": "Alt name", "scientificName": "Alt scientific", "confidence": 75}]
}
If not a plant, set identified to false.`
}

// CareGuidePrompt requests the full care guide schema as the sole output.
func CareGuidePrompt(commonName, scientificName string) string {
	return fmt.Sprintf(`Generate a complete plant care guide for %s (%s).
Return ONLY this JSON structure (no extra text, no markdown fences, fill in real values).
difficulty must be one of: Beginner, Intermediate, Expert.
{
  "overview": "Description here",
  "difficulty": "Beginner",
  "type": "Indoor",
  "lifespan": "Perennial",
  "nativeRegion": "Region here",
  "soil": {"type": "Soil type", "ph": "6.0-7.0", "mix": "Mix details", "tips": "Tips"},
  "watering": {"frequency": "Frequency", "amount": "Amount", "method": "Method", "overdoSigns": ["Sign1", "Sign2"], "underdoSigns": ["Sign1", "Sign2"], "tips": "Tips"},
  "sunlight": {"requirement": "Requirement", "hoursPerDay": "Hours", "indoorPlacement": "Placement", "tips": "Tips"},
  "temperature": {"ideal": "Range", "minimum": "Min", "maximum": "Max", "humidity": "Humidity", "frostTolerant": false, "tips": "Tips"},
  "fertilizer": {"type": "Type", "frequency": "Frequency", "season": "Season", "organic": "Organic option", "tips": "Tips"},
  "potting": {"potSize": "Size", "material": "Material", "repottingFrequency": "Frequency", "repottingSign": "Signs", "tips": "Tips"},
  "pruning": {"needed": true, "frequency": "Frequency", "method": "Method", "tips": "Tips"},
  "propagation": {"methods": ["Method1", "Method2"], "bestMethod": "Best", "bestSeason": "Season", "steps": ["Step1", "Step2", "Step3"]},
  "commonProblems": [{"problem": "Problem", "symptoms": "Symptoms", "cause": "Cause", "solution": "Solution"}],
  "pests": [{"pest": "Pest name", "symptoms": "Symptoms", "treatment": "Treatment"}],
  "growthTimeline": [
    {"period": "Week 1-2", "expectation": "Expectation"},
    {"period": "Month 1", "expectation": "Expectation"},
    {"period": "Month 3", "expectation": "Expectation"},
    {"period": "Month 6", "expectation": "Expectation"},
    {"period": "Year 1", "expectation": "Expectation"}
  ],
  "companions": ["Plant1", "Plant2"],
  "toxicity": {"toxic": false, "toHumans": "Safe", "toPets": "Safe", "details": "Details"},
  "reminderSchedule": {"wateringDays": 3, "fertilizingDays": 14, "repottingMonths": 12}
}`, commonName, scientificName)
}

// ReminderNoticePrompt requests a short plain-text push notification.
func ReminderNoticePrompt(plantName, kind string, daysSince int) string {
	return fmt.Sprintf("Write a short friendly push notification (max 100 chars) to remind user to %s their %s. %d days have passed. No quotes.",
		kind, plantName, daysSince)
}
