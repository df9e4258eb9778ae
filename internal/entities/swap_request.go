package entities

import "time"

// SwapStatus represents where a swap request stands in its lifecycle
type SwapStatus string

const (
	// SwapStatusPending is the initial state: a main-roster player asked
	// to be swapped out, nobody has picked it up
	SwapStatusPending SwapStatus = "pending"

	// SwapStatusAccepted means a benched player agreed to swap in;
	// officer approval (or auto-approval) is still outstanding
	SwapStatusAccepted SwapStatus = "accepted"

	// SwapStatusApproved is terminal: the roster exchange was committed
	SwapStatusApproved SwapStatus = "approved"

	// SwapStatusDenied is terminal: an officer rejected the swap
	SwapStatusDenied SwapStatus = "denied"

	// SwapStatusCancelled is terminal: the requester withdrew
	SwapStatusCancelled SwapStatus = "cancelled"

	// SwapStatusExpired is terminal: the request sat pending past its
	// expiry window
	SwapStatusExpired SwapStatus = "expired"
)

// String returns the string representation of the status
func (s SwapStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status ends the request's lifecycle
func (s SwapStatus) IsTerminal() bool {
	switch s {
	case SwapStatusApproved, SwapStatusDenied, SwapStatusCancelled, SwapStatusExpired:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the request still awaits resolution
func (s SwapStatus) IsOpen() bool {
	return s == SwapStatusPending || s == SwapStatusAccepted
}

// SwapRequest records one mediated roster swap: a main-roster player asks
// out, a benched player accepts, an officer (or auto-approval) resolves it.
// Requests are numbered so players can reference them in commands, and are
// kept after resolution as an audit trail.
type SwapRequest struct {
	ID                 int64      `json:"id"`
	RaidID             string     `json:"raid_id"`
	RequestingPlayerID string     `json:"requesting_player_id"`
	AcceptingPlayerID  string     `json:"accepting_player_id,omitempty"`
	Reason             string     `json:"reason,omitempty"`
	Status             SwapStatus `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote     string     `json:"resolution_note,omitempty"`
}

// Accept records the accepting player. Returns false unless the request
// is still pending.
func (r *SwapRequest) Accept(playerID string) bool {
	if r.Status != SwapStatusPending {
		return false
	}
	r.AcceptingPlayerID = playerID
	r.Status = SwapStatusAccepted
	return true
}

// Approve marks the request approved. Returns false unless the request
// was accepted first; the caller is responsible for committing the
// corresponding roster exchange.
func (r *SwapRequest) Approve(now time.Time) bool {
	if r.Status != SwapStatusAccepted {
		return false
	}
	r.Status = SwapStatusApproved
	r.ResolvedAt = &now
	return true
}

// Deny marks the request denied. Returns false if the request is already
// terminal.
func (r *SwapRequest) Deny(reason string, now time.Time) bool {
	if !r.Status.IsOpen() {
		return false
	}
	r.Status = SwapStatusDenied
	r.ResolutionNote = reason
	r.ResolvedAt = &now
	return true
}

// Cancel marks the request cancelled. Returns false if the request is
// already terminal.
func (r *SwapRequest) Cancel(now time.Time) bool {
	if !r.Status.IsOpen() {
		return false
	}
	r.Status = SwapStatusCancelled
	r.ResolvedAt = &now
	return true
}

// Expire marks the request expired. Only pending requests expire; an
// accepted request waits for an officer however long it takes.
func (r *SwapRequest) Expire(now time.Time) bool {
	if r.Status != SwapStatusPending {
		return false
	}
	r.Status = SwapStatusExpired
	r.ResolvedAt = &now
	return true
}

// OverdueAt reports whether a pending request created at or before
// now-expiry should expire.
func (r *SwapRequest) OverdueAt(now time.Time, expiry time.Duration) bool {
	return r.Status == SwapStatusPending && !r.CreatedAt.Add(expiry).After(now)
}
