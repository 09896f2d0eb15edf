// Package security records audit events and enforces login throttling.
package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventBlockCreated       EventType = "block_created"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventForbiddenAccess    EventType = "forbidden_access"
	EventUserCreated        EventType = "user_created"
	// EventOwnershipTransferred marks a profile re-parented to another account
	// because the submitted email matched it.
	EventOwnershipTransferred EventType = "ownership_transferred"
	EventDataExport           EventType = "data_export"
)

// Severity is derived from EventType, never caller-provided.
type Severity string

const (
	SeverityINFO     Severity = "INFO"
	SeverityMEDIUM   Severity = "MEDIUM"
	SeverityHIGH     Severity = "HIGH"
	SeverityCRITICAL Severity = "CRITICAL"
)

var eventSeverity = map[EventType]Severity{
	EventLoginSuccess:         SeverityINFO,
	EventUserCreated:          SeverityINFO,
	EventDataExport:           SeverityMEDIUM,
	EventLoginFailed:          SeverityMEDIUM,
	EventRateLimitTriggered:   SeverityMEDIUM,
	EventUnauthorizedAccess:   SeverityMEDIUM,
	EventForbiddenAccess:      SeverityHIGH,
	EventOwnershipTransferred: SeverityHIGH,
	EventLoginBlocked:         SeverityHIGH,
	EventBlockCreated:         SeverityCRITICAL,
}

// SeverityOf returns the severity for an event type, MEDIUM when unknown.
func SeverityOf(event EventType) Severity {
	if s, ok := eventSeverity[event]; ok {
		return s
	}
	return SeverityMEDIUM
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH, SeverityCRITICAL:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time
	Event        EventType
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string // masked or hashed for PII
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]any
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewSecurityLogger builds a JSON zap logger writing to stdout.
func NewSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewSecurityLoggerWithZap(logger, serviceName, environment)
}

// NewSecurityLoggerWithZap wraps an existing zap logger.
func NewSecurityLoggerWithZap(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: logger, serviceName: serviceName, environment: environment}
}

// NopLogger discards every event.
func NopLogger() *SecurityLogger {
	return NewSecurityLoggerWithZap(zap.NewNop(), "", "")
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	severity := SeverityOf(event.Event)

	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(severity)),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(severity.zapLevel(), string(event.Event), fields...)
}

// LogLoginFailed logs a failed login attempt
func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, userAgent, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"reason": reason},
	})
}

// LogLoginBlocked logs when a login is refused because the subject is blocked
func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, email, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"reason": "too_many_failed_attempts"},
	})
}

// LogBlockCreated logs when a block is created
func (sl *SecurityLogger) LogBlockCreated(ctx context.Context, subjectType, subjectValue, ip, requestID string, durationMinutes int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  subjectType,
		SubjectValue: maskValue(subjectType, subjectValue),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]any{"duration_minutes": durationMinutes},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

// LogAccessDenied logs a 401 (forbidden=false) or 403 (forbidden=true) refusal.
func (sl *SecurityLogger) LogAccessDenied(ctx context.Context, forbidden bool, userID, ip, requestID, endpoint string) {
	event := EventUnauthorizedAccess
	if forbidden {
		event = EventForbiddenAccess
	}
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "user_id",
		SubjectValue: userID,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

// LogOwnershipTransferred records a candidate profile moving to a new account.
func (sl *SecurityLogger) LogOwnershipTransferred(ctx context.Context, candidateID, email, fromUserID, toUserID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventOwnershipTransferred,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		Details: map[string]any{
			"candidate_id": candidateID,
			"from_user_id": fromUserID,
			"to_user_id":   toUserID,
		},
	})
}

// LogDataExport records a recruiter export of candidate data.
func (sl *SecurityLogger) LogDataExport(ctx context.Context, userID, format string, rows int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventDataExport,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details:      map[string]any{"format": format, "rows": rows},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue creates a truncated SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip":
		return value
	default:
		return HashValue(value)
	}
}
