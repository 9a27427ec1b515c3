package leave

import "time"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"

	// StatusDeleted is synthetic: it never persists, it only exists so a
	// delete runs through the same transition decision as every other
	// status change.
	StatusDeleted = "DELETED"
)

// Channel is where a proposed status came from. The main status endpoint
// and the generic update speak for the record directly; the
// manager-approval endpoint speaks through the approval sub-state.
type Channel string

const (
	ChannelDirect          Channel = "direct"
	ChannelManagerApproval Channel = "manager_approval"
)

// BalanceAction is the balance side effect a status transition demands.
type BalanceAction int

const (
	BalanceNone BalanceAction = iota
	BalanceConsume
	BalanceRestore
)

func (a BalanceAction) String() string {
	switch a {
	case BalanceConsume:
		return "consume"
	case BalanceRestore:
		return "restore"
	default:
		return "none"
	}
}

// DayCount is the inclusive calendar-day span of a leave. A single-day
// leave (start == end) counts as 1. Timestamps are truncated to dates;
// no timezone arithmetic beyond that.
func DayCount(start, end time.Time) int {
	s := start.Truncate(24 * time.Hour)
	e := end.Truncate(24 * time.Hour)
	return int(e.Sub(s).Hours()/24) + 1
}

// DecideBalanceAction is the single authority over how a status change
// moves the leave balance. It is evaluated by every mutation path:
// status patch, generic update, manager approval, and delete.
//
//	old != APPROVED, new == APPROVED                      -> consume
//	old == APPROVED, new in {REJECTED,CANCELLED,DELETED}  -> restore
//	anything else (incl. APPROVED -> APPROVED)            -> none
func DecideBalanceAction(oldStatus, newStatus string) BalanceAction {
	if oldStatus != StatusApproved && newStatus == StatusApproved {
		return BalanceConsume
	}
	if oldStatus == StatusApproved {
		switch newStatus {
		case StatusRejected, StatusCanceled, StatusDeleted:
			return BalanceRestore
		}
	}
	return BalanceNone
}

// EffectiveStatus resolves what a proposed status means for the main
// record given the channel it arrived on. The rule is deliberately
// asymmetric: a manager approval promotes the main status to APPROVED,
// but a manager rejection arriving through a generic merge leaves the
// main status alone — only the dedicated manager-approval operation
// demotes, and it does so by proposing REJECTED on the direct channel.
func EffectiveStatus(ch Channel, currentStatus, proposedStatus string) string {
	switch ch {
	case ChannelManagerApproval:
		if proposedStatus == StatusApproved {
			return StatusApproved
		}
		return currentStatus
	default:
		return proposedStatus
	}
}

// ValidStatus reports whether s is a persistable main status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// ValidLeaveType reports whether t is an accepted leave type.
func ValidLeaveType(t string) bool {
	switch t {
	case "ANNUAL", "SICK", "PERSONAL", "OTHER":
		return true
	}
	return false
}
