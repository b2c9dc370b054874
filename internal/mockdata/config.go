package mockdata

// File names written by Write. They match the configuration defaults under data/.
const (
	PeopleFile       = "people.csv"
	ProposalsFile    = "proposals.csv"
	PairsFile        = "pairs.csv"
	VillagesFile     = "village_locations.csv"
	DistancesFile    = "village_distances.csv"
	AvailabilityFile = "availability_legend.csv"
	ScheduleFile     = "schedule.csv"
)

// Config sizes a generated dataset.
type Config struct {
	Seed             int64
	People           int
	Proposals        int
	PairsPerProposal int
	// MissingDistanceRate drops this share of village pairs from the distance table.
	MissingDistanceRate float64
}

// DefaultConfig is large enough to train a useful model in well under a second.
func DefaultConfig() Config {
	return Config{
		Seed:                42,
		People:              60,
		Proposals:           80,
		PairsPerProposal:    8,
		MissingDistanceRate: 0.1,
	}
}
