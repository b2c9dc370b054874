package model

// Proposal is a reported community problem.
type Proposal struct {
	ID             string
	Text           string
	Category       string
	Village        string
	RequiredSkills []string
	Tags           []string
}

// HistoricalPair is a labelled (person, proposal) outcome used for training.
type HistoricalPair struct {
	PersonID   string
	ProposalID string
	Label      bool
}

// Village is a named location from the gazetteer.
type Village struct {
	Name string
	Lat  float64
	Lng  float64
}

// DistanceEntry is a symmetric road distance between two villages.
type DistanceEntry struct {
	VillageA      string
	VillageB      string
	DistanceKM    float64
	TravelMinutes float64
}
