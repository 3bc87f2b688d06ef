package topics

const (
	// Stakes
	StakeCreated  = "stake_created"
	StakeResolved = "stake_resolved"

	// DLQs
	StakeResolvedDLQ = "stake_resolved_dlq"
)
