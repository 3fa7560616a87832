package kernels

// Clamp thresholds shared by every backend.
const (
	// EpsInLog is the smallest argument ClippedLog passes to log.
	EpsInLog = 1e-37

	// LogOfEpsInLog is returned by ClippedLog for arguments below EpsInLog.
	// It is log(EpsInLog) rounded to one decimal.
	LogOfEpsInLog = -85.1

	// EpsInInverse is the smallest denominator magnitude ClippedQuotient
	// divides by.
	EpsInInverse = 1e-30
)
