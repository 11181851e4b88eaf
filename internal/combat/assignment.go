package combat

import "slices"

// Assignment pairs an objective group with the resource tasked against it.
// It holds borrowed references that are only valid for the tick in which
// the assignment planner created it.
type Assignment struct {
	Type      MissionType
	objective *Group
	resource  *Group
}

// NewAssignment creates an assignment. resource may be nil.
func NewAssignment(t MissionType, objective, resource *Group) *Assignment {
	return &Assignment{Type: t, objective: objective, resource: resource}
}

func (a *Assignment) Objective() *Group { return a.objective }
func (a *Assignment) Resource() *Group  { return a.resource }

func (a *Assignment) SetResource(g *Group) { a.resource = g }

// IsActive reports whether a resource has been bound.
func (a *Assignment) IsActive() bool {
	return a != nil && a.resource != nil
}

// Less reports whether a sorts before b: the objective with the greater
// plan value comes first and a missing objective sinks to the end. Two
// assignments without objectives are equal.
func (a *Assignment) Less(b *Assignment) bool {
	return CompareAssignments(a, b) < 0
}

// CompareAssignments orders assignments by descending objective plan value.
func CompareAssignments(a, b *Assignment) int {
	ao, bo := a.objectiveOrNil(), b.objectiveOrNil()
	switch {
	case ao == nil && bo == nil:
		return 0
	case ao == nil:
		return 1
	case bo == nil:
		return -1
	case ao.PlanValue > bo.PlanValue:
		return -1
	case ao.PlanValue < bo.PlanValue:
		return 1
	}
	return 0
}

func (a *Assignment) objectiveOrNil() *Group {
	if a == nil {
		return nil
	}
	return a.objective
}

// SortAssignments orders list by priority. Equal priorities keep their
// original order.
func SortAssignments(list []*Assignment) {
	slices.SortStableFunc(list, CompareAssignments)
}

// Description renders "<resource> <role> <objective>", leaving out the
// resource when none is bound.
func (a *Assignment) Description() string {
	desc := RoleName(a.Type)
	if a.resource != nil {
		desc = a.resource.Name + " " + desc
	}
	if a.objective != nil {
		desc += " " + a.objective.Name
	}
	return desc
}
