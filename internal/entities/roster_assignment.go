package entities

import (
	"strings"
	"time"
)

// AssignmentStatus represents where a player stands on a raid's roster
type AssignmentStatus string

const (
	// AssignmentStatusMain marks a player slated to participate
	AssignmentStatusMain AssignmentStatus = "main"

	// AssignmentStatusBench marks a player available as a substitute
	AssignmentStatusBench AssignmentStatus = "bench"

	// AssignmentStatusAbsent marks a player explicitly unavailable
	AssignmentStatusAbsent AssignmentStatus = "absent"

	// AssignmentStatusSwap marks a slot involved in a position exchange;
	// it is never entered or left through SetStatus
	AssignmentStatusSwap AssignmentStatus = "swap"
)

// AssignmentStatuses lists every persisted status value
var AssignmentStatuses = []AssignmentStatus{
	AssignmentStatusMain,
	AssignmentStatusBench,
	AssignmentStatusAbsent,
	AssignmentStatusSwap,
}

// assignmentTransitions holds the allowed manual status edges. The swap
// status is reserved for the swap workflow and position exchanges.
var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusMain:   {AssignmentStatusBench, AssignmentStatusAbsent},
	AssignmentStatusBench:  {AssignmentStatusMain, AssignmentStatusAbsent},
	AssignmentStatusAbsent: {AssignmentStatusMain, AssignmentStatusBench},
}

// String returns the string representation of the status
func (s AssignmentStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the persisted values
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusMain, AssignmentStatusBench, AssignmentStatusAbsent, AssignmentStatusSwap:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks the manual transition table. Same-status calls
// are not transitions; callers treat them as no-ops before consulting this.
func (s AssignmentStatus) CanTransitionTo(target AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// StatContribution returns how the status counts toward the owning
// player's eager counters: main contributes to total_rostered, bench to
// total_benched, absent and swap to neither. Counter deltas for a
// transition are the difference of the two contributions.
func (s AssignmentStatus) StatContribution() (rostered, benched int) {
	switch s {
	case AssignmentStatusMain:
		return 1, 0
	case AssignmentStatusBench:
		return 0, 1
	default:
		return 0, 0
	}
}

// ParseAssignmentStatus matches an input string to a status, ignoring case.
// An empty input defaults to main.
func ParseAssignmentStatus(input string) (AssignmentStatus, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return AssignmentStatusMain, true
	}
	for _, status := range AssignmentStatuses {
		if strings.EqualFold(trimmed, string(status)) {
			return status, true
		}
	}
	return "", false
}

// RosterAssignment ties a (raid, player) pair to one of the player's
// characters with an optional fixed position and a status. A player holds
// at most one assignment per raid.
type RosterAssignment struct {
	ID            string           `json:"id"`
	RaidID        string           `json:"raid_id"`
	PlayerID      string           `json:"player_id"`
	CharacterID   string           `json:"character_id"`
	CharacterName string           `json:"character_name"`
	Position      *int             `json:"position,omitempty"`
	Status        AssignmentStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Before reports whether a sorts ahead of other in roster views:
// position ascending with nil positions last, creation time as tie-break.
func (a *RosterAssignment) Before(other *RosterAssignment) bool {
	switch {
	case a.Position != nil && other.Position != nil:
		if *a.Position != *other.Position {
			return *a.Position < *other.Position
		}
	case a.Position != nil:
		return true
	case other.Position != nil:
		return false
	}
	return a.CreatedAt.Before(other.CreatedAt)
}
