package model

// Model family markers, matched as substrings of the vendor model name
const (
	FamilySonnet45 = "sonnet-4-5"
	FamilyHaiku45  = "haiku-4-5"
	FamilyOpus45   = "opus-4-5"
)

// Plan identifiers
const (
	PlanPro   = "pro"
	PlanMax5  = "max5"
	PlanMax20 = "max20"
)

// Direction selects which side of a request is being priced.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Tier is the pricing bracket label attached to a priced token count.
type Tier string

const (
	TierFlat    Tier = "flat"
	TierUnknown Tier = "unknown"
)
