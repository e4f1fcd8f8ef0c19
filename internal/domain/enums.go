package domain

// EntryStatus represents the moderation state of an entry.
type EntryStatus string

const (
	EntryStatusPending       EntryStatus = "PENDING"
	EntryStatusApproved      EntryStatus = "APPROVED"
	EntryStatusRejected      EntryStatus = "REJECTED"
	EntryStatusNeedsRevision EntryStatus = "NEEDS_REVISION"
)

func (s EntryStatus) String() string { return string(s) }

func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusApproved, EntryStatusRejected, EntryStatusNeedsRevision:
		return true
	}
	return false
}

// IsTerminal reports whether the status can never change again.
func (s EntryStatus) IsTerminal() bool {
	return s == EntryStatusApproved || s == EntryStatusRejected
}

// IsDecidable reports whether a moderation decision may be applied.
// Terminal entries cannot be re-decided.
func (s EntryStatus) IsDecidable() bool {
	return s == EntryStatusPending || s == EntryStatusNeedsRevision
}

// ModerationAction represents a moderator's decision on a pending entry.
type ModerationAction string

const (
	ModerationActionPending            ModerationAction = "PENDING"
	ModerationActionApprove            ModerationAction = "APPROVE"
	ModerationActionReject             ModerationAction = "REJECT"
	ModerationActionRevisedAndApproved ModerationAction = "REVISED_AND_APPROVED"
)

func (a ModerationAction) String() string { return string(a) }

func (a ModerationAction) IsValid() bool {
	switch a {
	case ModerationActionPending, ModerationActionApprove,
		ModerationActionReject, ModerationActionRevisedAndApproved:
		return true
	}
	return false
}

// IsApproval reports whether the action publishes the entry.
func (a ModerationAction) IsApproval() bool {
	return a == ModerationActionApprove || a == ModerationActionRevisedAndApproved
}

// Region is a fixed dialect point of the Cantonese-speaking area.
type Region string

const (
	RegionGuangzhou Region = "guangzhou"
	RegionHongKong  Region = "hongkong"
	RegionMacau     Region = "macau"
	RegionFoshan    Region = "foshan"
	RegionShenzhen  Region = "shenzhen"
	RegionZhaoqing  Region = "zhaoqing"
	RegionTaishan   Region = "taishan"
	RegionOverseas  Region = "overseas"
)

func (r Region) String() string { return string(r) }

func (r Region) IsValid() bool {
	switch r {
	case RegionGuangzhou, RegionHongKong, RegionMacau, RegionFoshan,
		RegionShenzhen, RegionZhaoqing, RegionTaishan, RegionOverseas:
		return true
	}
	return false
}

// ExampleSource identifies where an example sentence came from.
type ExampleSource string

const (
	ExampleSourceUserGenerated ExampleSource = "USER_GENERATED"
	ExampleSourceAIGenerated   ExampleSource = "AI_GENERATED"
	ExampleSourceLiterature    ExampleSource = "LITERATURE"
	ExampleSourceMedia         ExampleSource = "MEDIA"
)

func (s ExampleSource) String() string { return string(s) }

func (s ExampleSource) IsValid() bool {
	switch s {
	case ExampleSourceUserGenerated, ExampleSourceAIGenerated,
		ExampleSourceLiterature, ExampleSourceMedia:
		return true
	}
	return false
}

// NotationSystem identifies the phonetic notation scheme.
type NotationSystem string

const (
	NotationSystemJyutping NotationSystem = "JYUTPING"
	NotationSystemYale     NotationSystem = "YALE"
	NotationSystemIPA      NotationSystem = "IPA"
	NotationSystemOther    NotationSystem = "OTHER"
)

func (n NotationSystem) String() string { return string(n) }

func (n NotationSystem) IsValid() bool {
	switch n {
	case NotationSystemJyutping, NotationSystemYale, NotationSystemIPA, NotationSystemOther:
		return true
	}
	return false
}

// FormalityLevel grades how formal an expression is.
type FormalityLevel string

const (
	FormalityFormal     FormalityLevel = "FORMAL"
	FormalityNeutral    FormalityLevel = "NEUTRAL"
	FormalityColloquial FormalityLevel = "COLLOQUIAL"
	FormalityVulgar     FormalityLevel = "VULGAR"
)

func (f FormalityLevel) String() string { return string(f) }

func (f FormalityLevel) IsValid() bool {
	switch f {
	case FormalityFormal, FormalityNeutral, FormalityColloquial, FormalityVulgar:
		return true
	}
	return false
}

// Frequency grades how commonly an expression is used.
type Frequency string

const (
	FrequencyCommon     Frequency = "COMMON"
	FrequencyOccasional Frequency = "OCCASIONAL"
	FrequencyRare       Frequency = "RARE"
)

func (f Frequency) String() string { return string(f) }

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyCommon, FrequencyOccasional, FrequencyRare:
		return true
	}
	return false
}

// UserRole is the coarse role supplied by the external identity provider.
// The workflow trusts it as given.
type UserRole string

const (
	UserRoleContributor UserRole = "contributor"
	UserRoleModerator   UserRole = "moderator"
	UserRoleAdmin       UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleContributor, UserRoleModerator, UserRoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may apply moderation decisions.
func (r UserRole) CanModerate() bool {
	return r == UserRoleModerator || r == UserRoleAdmin
}
