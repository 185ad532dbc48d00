package models

// IdentificationResult is the model's answer to "what plant is this".
// When Identified is false no other field is required to be meaningful.
type IdentificationResult struct {
	Identified            bool          `json:"identified"`
	CommonName            string        `json:"commonName"`
	ScientificName        string        `json:"scientificName"`
	Family                string        `json:"family"`
	Confidence            int           `json:"confidence"`
	IdentificationDetails string        `json:"identificationDetails,omitempty"`
	Alternatives          []Alternative `json:"alternatives,omitempty"`
	Note                  string        `json:"note,omitempty"`
}

// Alternative is a lower-confidence candidate. Name identification fills
// Description; image identification fills Confidence instead.
type Alternative struct {
	CommonName     string `json:"commonName"`
	ScientificName string `json:"scientificName"`
	Description    string `json:"description,omitempty"`
	Confidence     int    `json:"confidence,omitempty"`
}
