package models

import "time"

// Account roles
const (
	RoleAdmin     = "admin"
	RoleVoter     = "voter"
	RoleCandidate = "candidate"
)

// Registration / nomination status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Audit actions
const (
	ActionLogin         = "login"
	ActionVoteCast      = "vote_cast"
	ActionElectionReset = "election_reset"
)

// Request types

type RegisterVoterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	NationalID  string `json:"national_id"`
}

type RegisterCandidateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Party    string `json:"party"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type IdentifyRequest struct {
	Identifier string `json:"identifier"`
}

type RequestCodeRequest struct {
	SessionToken string `json:"session_token"`
}

type VerifyCodeRequest struct {
	SessionToken string `json:"session_token"`
	Code         string `json:"code"`
}

type CastVoteRequest struct {
	SessionToken string `json:"session_token"`
	CandidateID  string `json:"candidate_id"`
}

// Response types

type RegisterResponse struct {
	AccountID string `json:"account_id"`
	Message   string `json:"message"`
}

type LoginResponse struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	AccessKey string `json:"access_key"`
}

type IdentifyResponse struct {
	SessionToken string `json:"session_token"`
}

// The code is returned in the response for demo purposes; a real
// deployment would deliver it out of band (SMS or email).
type RequestCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifyCodeResponse struct {
	Message string `json:"message"`
}

type CastVoteResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

type ApproveVoterResponse struct {
	PublicID string `json:"public_id"`
	Message  string `json:"message"`
}

type AdminStatsResponse struct {
	TotalVoters        int `json:"total_voters"`
	ApprovedVoters     int `json:"approved_voters"`
	PendingVoters      int `json:"pending_voters"`
	RejectedVoters     int `json:"rejected_voters"`
	TotalCandidates    int `json:"total_candidates"`
	ApprovedCandidates int `json:"approved_candidates"`
	TotalVotes         int `json:"total_votes"`
}

type TallyResponse struct {
	Rankings   []TallyEntry `json:"rankings"`
	TotalVotes int          `json:"total_votes"`
}

// Domain types

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Voter struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	PublicID    *string    `json:"public_id,omitempty"` // Assigned at approval, immutable
	PhoneNumber string     `json:"phone_number"`
	NationalID  string     `json:"-"` // Never expose in JSON
	Status      string     `json:"status"`
	IsApproved  bool       `json:"is_approved"`
	HasVoted    bool       `json:"has_voted"`
	VotedAt     *time.Time `json:"voted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Candidate struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Party            string    `json:"party"`
	NominationStatus string    `json:"nomination_status"`
	IsApproved       bool      `json:"is_approved"`
	TotalVotes       int       `json:"total_votes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Ballot struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"-"` // Never expose in JSON
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

type AuditEntry struct {
	ID        string    `json:"id"`
	VoterID   *string   `json:"voter_id,omitempty"`
	Action    string    `json:"action"`
	Detail    *string   `json:"detail,omitempty"`
	IPAddress *string   `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type TallyEntry struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Party       string `json:"party"`
	Votes       int    `json:"votes"`
	Rank        int    `json:"rank"` // 1-indexed ranking
}

// PendingVoter is the admin review view of a voter registration.
type PendingVoter struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	NationalID  string    `json:"national_id"`
	AppliedOn   time.Time `json:"applied_on"`
}

// PendingCandidate is the admin review view of a candidate nomination.
type PendingCandidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Party     string    `json:"party"`
	Status    string    `json:"status"`
	AppliedOn time.Time `json:"applied_on"`
}

// CandidateListing is the public ballot view of an approved candidate.
type CandidateListing struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Party string `json:"party"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
