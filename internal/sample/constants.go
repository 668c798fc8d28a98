package sample

// Generator defaults.
const (
	DefaultColleges    = 40
	DefaultYears       = 3
	DefaultFirstYear   = 2022
	DefaultGroups      = 4
	DefaultMissingRate = 0.08
	DefaultSeed        = 42
)

// HTTP status code constants.
const (
	StatusOK = 200
)

// Verification tolerance for averages read back from the service.
const averageTolerance = 1e-9
