package ecs

import (
	"fmt"
	"time"
)

// ==============================================
// Error Interface and Base Types
// ==============================================

// ECSError represents an error specific to the ECS runtime. It carries
// enough context (entity, component, system) to be logged usefully
// without the caller reconstructing it from scratch.
type ECSError struct {
	Code      Code
	Message   string
	Component ComponentType
	Entity    EntityID
	System    SystemType
	Timestamp time.Time
	Details   string
}

func (e *ECSError) Error() string {
	if e.Entity != InvalidEntityID && e.Component != InvalidComponentType {
		return fmt.Sprintf("[%s] %s (entity=%d component=%s)", e.Code, e.Message, e.Entity, e.Component)
	}
	if e.Entity != InvalidEntityID {
		return fmt.Sprintf("[%s] %s (entity=%d)", e.Code, e.Message, e.Entity)
	}
	if e.Component != InvalidComponentType {
		return fmt.Sprintf("[%s] %s (component=%s)", e.Code, e.Message, e.Component)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsRecoverable reports whether the caller may reasonably retry or ignore the error.
func (e *ECSError) IsRecoverable() bool {
	switch e.Code {
	case CodeMemoryOutOfBounds, CodeMaxComponentCountReached, CodeResourceExhausted:
		return false
	case CodeNotFound, CodeAlreadyExists:
		return true
	default:
		return true
	}
}

// Severity classifies the error for logging verbosity.
func (e *ECSError) Severity() Severity {
	switch e.Code {
	case CodeNotFound, CodeAlreadyExists:
		return SeverityWarning
	case CodeMemoryOutOfBounds, CodeMaxComponentCountReached, CodeResourceExhausted:
		return SeverityCritical
	default:
		return SeverityError
	}
}

// WithEntity attaches entity context and returns the same error for chaining.
func (e *ECSError) WithEntity(id EntityID) *ECSError { e.Entity = id; return e }

// WithComponent attaches component context and returns the same error for chaining.
func (e *ECSError) WithComponent(c ComponentType) *ECSError { e.Component = c; return e }

// WithSystem attaches system context and returns the same error for chaining.
func (e *ECSError) WithSystem(s SystemType) *ECSError { e.System = s; return e }

// ==============================================
// Severity
// ==============================================

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ==============================================
// Stable numeric-flavored error codes (spec.md §6)
// ==============================================

// Code is a stable error code returned by public operations, per the
// taxonomy in spec.md §6 and §7.
type Code string

const (
	CodeOk                       Code = "OK"
	CodeUnknown                  Code = "UNKNOWN"
	CodeDone                     Code = "DONE"
	CodeMemoryOutOfBounds        Code = "MEMORY_OUT_OF_BOUNDS"
	CodeNullPointer              Code = "NULL_POINTER"
	CodeNotFound                 Code = "NOT_FOUND"
	CodeAlreadyExists            Code = "ALREADY_EXISTS"
	CodeMaxComponentCountReached Code = "MAX_COMPONENT_COUNT_REACHED"
	CodeIncompatibleDataTypes    Code = "INCOMPATIBLE_DATA_TYPES"
	CodeResourceExhausted        Code = "RESOURCE_EXHAUSTED"
	CodeInvalidOperation         Code = "INVALID_OPERATION"
	CodeCircularDependency       Code = "CIRCULAR_DEPENDENCY"
	CodeSemaphoreNonmonotonic    Code = "SEMAPHORE_NONMONOTONIC_SIGNAL"
)

// ==============================================
// Factory helpers
// ==============================================

func NewError(code Code, message string) *ECSError {
	return &ECSError{Code: code, Message: message, Timestamp: time.Now()}
}

func EntityNotFoundErr(id EntityID) *ECSError {
	return NewError(CodeNotFound, fmt.Sprintf("entity %d not found", id)).WithEntity(id)
}

func ComponentNotFoundErr(id EntityID, c ComponentType) *ECSError {
	return NewError(CodeNotFound, fmt.Sprintf("component %s not found on entity %d", c, id)).WithEntity(id).WithComponent(c)
}

func ComponentExistsErr(id EntityID, c ComponentType) *ECSError {
	return NewError(CodeAlreadyExists, fmt.Sprintf("component %s already exists on entity %d", c, id)).WithEntity(id).WithComponent(c)
}

func MaxComponentCountReachedErr(limit int) *ECSError {
	return NewError(CodeMaxComponentCountReached, fmt.Sprintf("component registry limit of %d reached", limit))
}

func SystemNotFoundErr(t SystemType) *ECSError {
	return NewError(CodeNotFound, fmt.Sprintf("system %s not found", t)).WithSystem(t)
}

func CircularDependencyErr(chain []BarrierName) *ECSError {
	return NewError(CodeCircularDependency, fmt.Sprintf("circular barrier dependency: %v", chain))
}
