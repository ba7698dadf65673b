package domain

import "time"

// MembershipType determines the dues schedule entry and eligibility rule that
// apply to a member.
type MembershipType string

const (
	MembershipProbation MembershipType = "PROBATION"
	MembershipFull      MembershipType = "FULL"
	MembershipHonorary  MembershipType = "HONORARY"
	MembershipSenator   MembershipType = "SENATOR"
	MembershipVisiting  MembershipType = "VISITING"
)

// DuesStatus is the member-level dues state for the current cycle.
type DuesStatus string

const (
	DuesUnpaid DuesStatus = "UNPAID"
	DuesPaid   DuesStatus = "PAID"
)

// Member is a lightweight roster entry consumed by the dues renewal engine.
// It is not a user account; authentication lives upstream.
type Member struct {
	MemberID         string         `json:"memberID"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	MembershipType   MembershipType `json:"membershipType"`
	DateOfBirth      *time.Time     `json:"dateOfBirth,omitempty"`
	Nationality      string         `json:"nationality,omitempty"`
	SenatorCertified bool           `json:"senatorCertified"`
	DuesStatus       DuesStatus     `json:"duesStatus"`
	AuditFields
}

// AgeAt returns the member's age in whole years at the given date, or -1 when
// the date of birth is unknown.
func (m Member) AgeAt(at time.Time) int {
	if m.DateOfBirth == nil {
		return -1
	}
	dob := *m.DateOfBirth
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	return age
}
