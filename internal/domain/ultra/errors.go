package ultra

import "errors"

// Sentinel errors for invalid selection requests.
var (
	ErrInvalidTeamSize = errors.New("team_size must be at least 1")
	ErrInvalidNumTeams = errors.New("num_teams must be at least 1")
)
