package domain

// EdgeState is the lifecycle state of a directed recognition edge.
type EdgeState string

const (
	EdgeStateNone            EdgeState = "NONE"
	EdgeStateActive          EdgeState = "ACTIVE"
	EdgeStateRevoked         EdgeState = "REVOKED"
	EdgeStateChallengedReset EdgeState = "CHALLENGED_RESET"
)

func (s EdgeState) String() string { return string(s) }

func (s EdgeState) IsValid() bool {
	switch s {
	case EdgeStateNone, EdgeStateActive, EdgeStateRevoked, EdgeStateChallengedReset:
		return true
	}
	return false
}

// Badge is a sticky reputation milestone.
type Badge string

const (
	BadgeNovice Badge = "NOVICE"
	BadgeMaster Badge = "MASTER"
	BadgeElite  Badge = "ELITE"
	BadgeLegend Badge = "LEGEND"
)

func (b Badge) String() string { return string(b) }

func (b Badge) IsValid() bool {
	switch b {
	case BadgeNovice, BadgeMaster, BadgeElite, BadgeLegend:
		return true
	}
	return false
}

// EvidenceKind selects how a recognition guess is verified.
type EvidenceKind string

const (
	// EvidenceKindIdentity is a direct guess of the target's real handle.
	EvidenceKindIdentity EvidenceKind = "IDENTITY"
	// EvidenceKindContent claims the target authored a piece of content.
	EvidenceKindContent EvidenceKind = "CONTENT"
)

func (k EvidenceKind) String() string { return string(k) }

func (k EvidenceKind) IsValid() bool {
	switch k {
	case EvidenceKindIdentity, EvidenceKindContent:
		return true
	}
	return false
}

// AuditAction is a recognition event kept in the audit trail.
type AuditAction string

const (
	AuditActionRecognize  AuditAction = "RECOGNIZE"
	AuditActionMiss       AuditAction = "MISS"
	AuditActionRevoke     AuditAction = "REVOKE"
	AuditActionChallenge  AuditAction = "CHALLENGE"
	AuditActionCompliment AuditAction = "COMPLIMENT"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionRecognize, AuditActionMiss, AuditActionRevoke, AuditActionChallenge, AuditActionCompliment:
		return true
	}
	return false
}
