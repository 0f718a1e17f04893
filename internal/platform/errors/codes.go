// Package errors provides structured errors with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Domain configuration errors
	CodeConfigNoClasses          Code = "CONFIG_NO_CLASSES"
	CodeConfigDuplicateClass     Code = "CONFIG_DUPLICATE_CLASS"
	CodeConfigInvalidClassParams Code = "CONFIG_INVALID_CLASS_PARAMS"
	CodeConfigNoCohorts          Code = "CONFIG_NO_COHORTS"
	CodeConfigInvalidCohort      Code = "CONFIG_INVALID_COHORT"
	CodeConfigDuplicateCohort    Code = "CONFIG_DUPLICATE_COHORT"
	CodeConfigInvalidValuation   Code = "CONFIG_INVALID_VALUATION"
	CodeConfigInvalidDevelopment Code = "CONFIG_INVALID_DEVELOPMENT_WINDOW"
	CodeConfigInvalidAssumptions Code = "CONFIG_INVALID_ASSUMPTIONS"
	CodeConfigUnreadable         Code = "CONFIG_UNREADABLE"

	// Export errors
	CodeExportFailed Code = "EXPORT_FAILED"
)

// Exit statuses returned by ExitCode.
const (
	ExitFailure     = 1
	ExitInvalidConf = 2
)

// ExitCode maps an error code to a process exit status.
func (c Code) ExitCode() int {
	switch c {
	case CodeConfigNoClasses,
		CodeConfigDuplicateClass,
		CodeConfigInvalidClassParams,
		CodeConfigNoCohorts,
		CodeConfigInvalidCohort,
		CodeConfigDuplicateCohort,
		CodeConfigInvalidValuation,
		CodeConfigInvalidDevelopment,
		CodeConfigInvalidAssumptions,
		CodeConfigUnreadable:
		return ExitInvalidConf
	default:
		return ExitFailure
	}
}
