package catalog

// ConditionIDs names the hardcoded catalog ids the work-conditions
// sub-scores key off. The scoring rules depend on these seed-data ids
// staying stable in the backend catalog; keeping them in one named
// table makes that dependency visible and testable.
type ConditionIDs struct {
	VisaSupport  int64
	MealProvided int64

	// OtherConditions lists the remaining work-condition entries that
	// are scored proportionally as a group.
	OtherConditions []int64
}

// DefaultConditionIDs mirrors the ids of the production seed catalog.
func DefaultConditionIDs() ConditionIDs {
	return ConditionIDs{
		VisaSupport:  401,
		MealProvided: 402,
		OtherConditions: []int64{
			403, // dormitory
			404, // severance-pay
			405, // insurance
			406, // overtime-pay
		},
	}
}
