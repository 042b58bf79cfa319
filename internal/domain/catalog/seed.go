package catalog

// Seed returns a catalog snapshot mirroring the production seed data.
// Tests and the demo generator use it; the server receives real
// catalog records from callers and never consults this table.
func Seed() []KeywordRecord {
	return []KeywordRecord{
		// location (no wildcard; location is a gating category)
		{ID: 101, Label: "seoul", Category: CategoryLocation},
		{ID: 102, Label: "busan", Category: CategoryLocation},
		{ID: 103, Label: "incheon", Category: CategoryLocation},
		{ID: 104, Label: "daegu", Category: CategoryLocation},

		// gender
		{ID: 200, Label: NoPreference, Category: CategoryGender},
		{ID: 201, Label: "female", Category: CategoryGender},
		{ID: 202, Label: "male", Category: CategoryGender},

		// job-type
		{ID: 300, Label: NoPreference, Category: CategoryJobType},
		{ID: 301, Label: "service", Category: CategoryJobType},
		{ID: 302, Label: "manufacturing", Category: CategoryJobType},
		{ID: 303, Label: "office", Category: CategoryJobType},
		{ID: 304, Label: "delivery", Category: CategoryJobType},

		// work-conditions (ids match DefaultConditionIDs)
		{ID: 401, Label: "visa-support", Category: CategoryWorkConditions},
		{ID: 402, Label: "meal-provided", Category: CategoryWorkConditions},
		{ID: 403, Label: "dormitory", Category: CategoryWorkConditions},
		{ID: 404, Label: "severance-pay", Category: CategoryWorkConditions},
		{ID: 405, Label: "insurance", Category: CategoryWorkConditions},
		{ID: 406, Label: "overtime-pay", Category: CategoryWorkConditions},

		// work-day
		{ID: 500, Label: NoPreference, Category: CategoryWorkDay},
		{ID: 501, Label: "monday", Category: CategoryWorkDay},
		{ID: 502, Label: "tuesday", Category: CategoryWorkDay},
		{ID: 503, Label: "wednesday", Category: CategoryWorkDay},
		{ID: 504, Label: "thursday", Category: CategoryWorkDay},
		{ID: 505, Label: "friday", Category: CategoryWorkDay},
		{ID: 506, Label: "saturday", Category: CategoryWorkDay},
		{ID: 507, Label: "sunday", Category: CategoryWorkDay},

		// korean-level
		{ID: 600, Label: NoPreference, Category: CategoryKoreanLevel},
		{ID: 601, Label: "beginner", Category: CategoryKoreanLevel},
		{ID: 602, Label: "intermediate", Category: CategoryKoreanLevel},
		{ID: 603, Label: "advanced", Category: CategoryKoreanLevel},

		// visa
		{ID: 700, Label: NoPreference, Category: CategoryVisa},
		{ID: 701, Label: "e-9", Category: CategoryVisa},
		{ID: 702, Label: "h-2", Category: CategoryVisa},
		{ID: 703, Label: "f-4", Category: CategoryVisa},
		{ID: 704, Label: "d-2", Category: CategoryVisa},

		// age-range
		{ID: 800, Label: NoPreference, Category: CategoryAgeRange},
		{ID: 801, Label: "20-25", Category: CategoryAgeRange},
		{ID: 802, Label: "25-30", Category: CategoryAgeRange},
		{ID: 803, Label: "30-35", Category: CategoryAgeRange},
		{ID: 804, Label: "35+", Category: CategoryAgeRange},

		// country
		{ID: 900, Label: NoPreference, Category: CategoryCountry},
		{ID: 901, Label: "vietnam", Category: CategoryCountry},
		{ID: 902, Label: "philippines", Category: CategoryCountry},
		{ID: 903, Label: "uzbekistan", Category: CategoryCountry},
		{ID: 904, Label: "nepal", Category: CategoryCountry},

		// relocatable
		{ID: 1001, Label: "yes", Category: CategoryRelocatable},
		{ID: 1002, Label: "no", Category: CategoryRelocatable},
	}
}

// SeedByLabel indexes the seed catalog by category+label for tests.
func SeedByLabel() map[Category]map[string]KeywordRecord {
	out := make(map[Category]map[string]KeywordRecord)
	for _, r := range Seed() {
		if out[r.Category] == nil {
			out[r.Category] = make(map[string]KeywordRecord)
		}
		out[r.Category][r.Label] = r
	}
	return out
}
