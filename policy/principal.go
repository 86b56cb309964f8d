package policy

import (
	"github.com/skubra/cleargate/classification"
	"github.com/skubra/cleargate/util"
)

// Principal is the authenticated subject of every access decision. It is
// built fresh per validated token by the authentication gateway and
// discarded after the request; it is never persisted.
type Principal struct {
	Username     string
	Organization string
	Clearance    classification.Level
	Cells        util.Set[string]
	Compartments util.Set[string]
	Roles        RoleSet
}

// ClearanceRank returns the principal's numeric clearance rank. An
// unrecognized clearance level yields classification.RankUnknown, which
// is below every valid rank, so such a principal can see nothing.
func (p Principal) ClearanceRank() int {
	return classification.Rank(p.Clearance)
}
