// Package types contains the request and response shapes shared by the HTTP
// API and the CLI.
package types

import "time"

// Weights are the per-request tunables. Nil fields keep the configured value.
type Weights struct {
	OverworkStrength  *float64 `json:"overwork_strength,omitempty" validate:"omitempty,gte=0"`
	LambdaRedundancy  *float64 `json:"lambda_redundancy,omitempty" validate:"omitempty,gte=0"`
	LambdaSize        *float64 `json:"lambda_size,omitempty" validate:"omitempty,gte=0"`
	LambdaWillingness *float64 `json:"lambda_willingness,omitempty" validate:"omitempty,gte=0"`
	DistanceDecay     *float64 `json:"distance_decay,omitempty" validate:"omitempty,gt=0"`
	Threshold         *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// RecommendRequest asks for ranked teams for one proposal.
type RecommendRequest struct {
	Text           string     `json:"text" validate:"required"`
	Village        string     `json:"village,omitempty"`
	TaskStart      *time.Time `json:"task_start,omitempty"`
	TaskEnd        *time.Time `json:"task_end,omitempty"`
	TeamSize       int        `json:"team_size" validate:"min=1"`
	NumTeams       int        `json:"num_teams" validate:"min=1"`
	Severity       string     `json:"severity,omitempty" validate:"omitempty,oneof=LOW NORMAL HIGH low normal high"`
	RequiredSkills []string   `json:"required_skills,omitempty" validate:"omitempty,dive,required"`
	// AutoExtract enables severity and location detection; nil means true.
	AutoExtract   *bool    `json:"auto_extract,omitempty"`
	Transcription string   `json:"transcription,omitempty"`
	VisualTags    []string `json:"visual_tags,omitempty"`
	UniqueMembers bool     `json:"unique_members,omitempty"`
	Weights       Weights  `json:"weights,omitempty"`
}

// Member is one team member in a response.
type Member struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Skills        []string `json:"skills"`
	WAdj          float64  `json:"w_adj"`
	Compatibility float64  `json:"compatibility"`
	Availability  string   `json:"availability"`
	HomeLocation  string   `json:"home_location"`
	DistanceKM    *float64 `json:"distance_km"`
	Rank          int      `json:"rank"`
}

// Metrics is a team's metric vector.
type Metrics struct {
	Goodness       float64 `json:"goodness"`
	Coverage       float64 `json:"coverage"`
	KRobustness    int     `json:"k_robustness"`
	Redundancy     float64 `json:"redundancy"`
	SizeFit        float64 `json:"size_fit"`
	WillingnessAvg float64 `json:"willingness_avg"`
	WillingnessMin float64 `json:"willingness_min"`
	TeamSize       int     `json:"team_size"`
}

// Team is one ranked team.
type Team struct {
	Rank    int      `json:"rank"`
	Members []Member `json:"members"`
	Metrics Metrics  `json:"metrics"`
}

// Shortfall reports a candidate pool smaller than the team size.
type Shortfall struct {
	Requested int `json:"requested"`
	Available int `json:"available"`
	Deficit   int `json:"deficit"`
}

// Response statuses.
const (
	StatusOK          = "ok"
	StatusShortfall   = "shortfall"
	StatusNoCandidate = "no_eligible_candidates"
)

// RecommendResponse is the ranked answer.
type RecommendResponse struct {
	Severity           string     `json:"severity"`
	SeveritySource     string     `json:"severity_source"`
	Confidence         float64    `json:"confidence"`
	Location           *string    `json:"location"`
	LocationSource     string     `json:"location_source"`
	RequiredSkills     []string   `json:"required_skills"`
	Status             string     `json:"status"`
	Message            string     `json:"message,omitempty"`
	Shortfall          *Shortfall `json:"shortfall,omitempty"`
	Teams              []Team     `json:"teams"`
	ModelVersion       string     `json:"model_version"`
	LedgerVersion      uint64     `json:"ledger_version"`
	Strategy           string     `json:"strategy"`
	CandidatesScored   int        `json:"candidates_scored"`
	CandidatesEligible int        `json:"candidates_eligible"`
}

// AssignmentRequest commits an accepted team against the hours ledger.
type AssignmentRequest struct {
	ID         string    `json:"id,omitempty" validate:"omitempty,max=128"`
	ProposalID string    `json:"proposal_id,omitempty"`
	Title      string    `json:"title" validate:"required"`
	Village    string    `json:"village,omitempty"`
	PersonIDs  []string  `json:"person_ids" validate:"required,min=1,dive,required"`
	Start      time.Time `json:"start" validate:"required"`
	End        time.Time `json:"end" validate:"required,gtfield=Start"`
}

// AssignmentAck acknowledges an assignment commit.
type AssignmentAck struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// TrainRequest overrides dataset and artifact paths for one training run.
// Over HTTP every path must stay inside the working directory and the output
// must be a .json artifact.
type TrainRequest struct {
	PeoplePath    string `json:"people_path,omitempty" validate:"omitempty,localpath"`
	ProposalsPath string `json:"proposals_path,omitempty" validate:"omitempty,localpath"`
	PairsPath     string `json:"pairs_path,omitempty" validate:"omitempty,localpath"`
	OutputPath    string `json:"output_path,omitempty" validate:"omitempty,localpath,endswith=.json"`
}

// TrainResponse summarizes a training run.
type TrainResponse struct {
	Version         string   `json:"version"`
	People          int      `json:"people"`
	Proposals       int      `json:"proposals"`
	Pairs           int      `json:"pairs"`
	Skipped         int      `json:"skipped"`
	TrainPairs      int      `json:"train_pairs"`
	ValidationPairs int      `json:"validation_pairs"`
	AUC             *float64 `json:"auc"`
	OutputPath      string   `json:"output_path"`
	DurationMS      int64    `json:"duration_ms"`
}

// ModelInfo describes the artifact in service.
type ModelInfo struct {
	Version         string    `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	AUC             *float64  `json:"auc"`
	TrainPairs      int       `json:"train_pairs"`
	ValidationPairs int       `json:"validation_pairs"`
	DistanceScale   float64   `json:"distance_scale"`
	DistanceDecay   float64   `json:"distance_decay"`
	Terms           int       `json:"terms"`
	Features        []string  `json:"features"`
}

// WorkloadEntry is one person's committed hours in a week.
type WorkloadEntry struct {
	Rank     int     `json:"rank"`
	PersonID string  `json:"person_id"`
	Name     string  `json:"name,omitempty"`
	Hours    float64 `json:"hours"`
}

// Workload is the most loaded people in one ISO week.
type Workload struct {
	Week          string          `json:"week"`
	LedgerVersion uint64          `json:"ledger_version"`
	Entries       []WorkloadEntry `json:"entries"`
}
