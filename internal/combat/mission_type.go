package combat

import "strings"

// MissionType is the role an assignment or mission request fulfils.
type MissionType int

const (
	MissionPatrol MissionType = iota
	MissionSweep
	MissionIntercept
	MissionAirPatrol
	MissionAirSweep
	MissionAirIntercept
	MissionStrike
	MissionAssault
	MissionDefend
	MissionEscort
	MissionEscortFreight
	MissionEscortShuttle
	MissionEscortStrike
	MissionIntel
	MissionScout
	MissionRecon
	MissionBlockade
	MissionFleet
	MissionBombardment
	MissionFlightOps
	MissionTransport
	MissionCargo
	MissionTraining
	MissionOther
)

var roleNames = []string{
	"Patrol", "Sweep", "Intercept", "Airborne Patrol", "Airborne Sweep",
	"Airborne Intercept", "Strike", "Assault", "Defend", "Escort",
	"Freight Escort", "Shuttle Escort", "Strike Escort", "Intel", "Scout",
	"Recon", "Blockade", "Fleet", "Attack", "Flight Ops", "Transport",
	"Cargo", "Training", "Misc",
}

// RoleName returns the display role for a mission type.
func RoleName(t MissionType) string {
	if t < 0 || int(t) >= len(roleNames) {
		return "Misc"
	}
	return roleNames[t]
}

func (t MissionType) String() string { return RoleName(t) }

// MissionTypeFromName accepts either the role name or its upper-case
// underscore form ("AIR_PATROL"), ignoring case. Unknown names yield
// MissionOther.
func MissionTypeFromName(name string) MissionType {
	for i, n := range roleNames {
		if strings.EqualFold(name, n) || strings.EqualFold(name, strings.ReplaceAll(n, " ", "_")) {
			return MissionType(i)
		}
	}
	switch strings.ToUpper(name) {
	case "AIR_PATROL":
		return MissionAirPatrol
	case "AIR_SWEEP":
		return MissionAirSweep
	case "AIR_INTERCEPT":
		return MissionAirIntercept
	case "ESCORT_FREIGHT":
		return MissionEscortFreight
	case "ESCORT_SHUTTLE":
		return MissionEscortShuttle
	case "ESCORT_STRIKE":
		return MissionEscortStrike
	case "BOMBARDMENT":
		return MissionBombardment
	}
	return MissionOther
}
