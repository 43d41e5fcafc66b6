// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/resourcehub/internal/app/store/audit"
	"github.com/dalemusser/resourcehub/internal/app/system/ratelimit"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // MongoDB and zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config selects where each category of events goes.
type Config struct {
	Auth    string
	Content string
	Admin   string
}

// DefaultConfig sends everything to both MongoDB and zap.
func DefaultConfig() Config {
	return Config{Auth: ModeAll, Content: ModeAll, Admin: ModeAll}
}

// Logger writes audit events to the audit store and/or zap.
// A nil *Logger is valid and drops everything.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case audit.CategoryAuth:
		m = l.config.Auth
	case audit.CategoryContent:
		m = l.config.Content
	case audit.CategoryAdmin:
		m = l.config.Admin
	}
	switch m {
	case ModeDB, ModeLog, ModeOff:
		return m
	}
	return ModeAll
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the category's mode. Store failures are
// logged, never returned: auditing must not fail the request.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	mode := l.mode(event.Category)
	if mode == ModeOff {
		return
	}
	if mode == ModeAll || mode == ModeLog {
		l.logToZap(event)
	}
	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func fromRequest(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication events ---

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailed records a rejected sign-in. userID is nil when no account matched.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType string, userID *primitive.ObjectID, email, reason string) {
	e := fromRequest(r, audit.CategoryAuth, eventType, false)
	e.UserID = userID
	e.FailureReason = reason
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// Logout takes the hex id from the session; an unparsable id is logged without a user.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDHex string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLogout, true)
	if id, err := primitive.ObjectIDFromHex(userIDHex); err == nil {
		e.UserID = &id
	}
	l.Log(ctx, e)
}

func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, u models.User) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventUserRegistered, true)
	e.UserID = &u.ID
	e.Details = map[string]string{"email": u.Email}
	l.Log(ctx, e)
}

// --- Content events ---

func (l *Logger) content(ctx context.Context, r *http.Request, eventType string, actorID, targetID primitive.ObjectID, details map[string]string) {
	e := fromRequest(r, audit.CategoryContent, eventType, true)
	e.UserID = &actorID
	e.TargetID = &targetID
	e.Details = details
	l.Log(ctx, e)
}

func (l *Logger) ResourceCreated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, res models.Resource) {
	l.content(ctx, r, audit.EventResourceCreated, actorID, res.ID, map[string]string{"name": res.Name, "status": string(res.Status)})
}

func (l *Logger) ResourceUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, res models.Resource) {
	l.content(ctx, r, audit.EventResourceUpdated, actorID, res.ID, map[string]string{"name": res.Name, "status": string(res.Status)})
}

func (l *Logger) ResourceDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, res models.Resource) {
	l.content(ctx, r, audit.EventResourceDeleted, actorID, res.ID, map[string]string{"name": res.Name})
}

func (l *Logger) CategoryCreated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Category) {
	l.content(ctx, r, audit.EventCategoryCreated, actorID, c.ID, map[string]string{"name": c.Name})
}

func (l *Logger) CommentDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Comment) {
	l.content(ctx, r, audit.EventCommentDeleted, actorID, c.ID, map[string]string{"resource_id": c.ResourceID.Hex()})
}

// --- Admin events ---

func (l *Logger) admin(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, target models.User, details map[string]string) {
	e := fromRequest(r, audit.CategoryAdmin, eventType, true)
	e.UserID = &actorID
	e.TargetID = &target.ID
	if details == nil {
		details = map[string]string{}
	}
	details["email"] = target.Email
	e.Details = details
	l.Log(ctx, e)
}

func (l *Logger) UserRoleChanged(ctx context.Context, r *http.Request, actorID primitive.ObjectID, target models.User, newRole string) {
	l.admin(ctx, r, audit.EventUserRoleChanged, actorID, target, map[string]string{"from": target.Role, "to": newRole})
}

// UserStatusChanged records enabling or disabling an account.
func (l *Logger) UserStatusChanged(ctx context.Context, r *http.Request, actorID primitive.ObjectID, target models.User, newStatus string) {
	eventType := audit.EventUserEnabled
	if newStatus == models.UserStatusDisabled {
		eventType = audit.EventUserDisabled
	}
	l.admin(ctx, r, eventType, actorID, target, nil)
}

func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, target models.User) {
	l.admin(ctx, r, audit.EventUserDeleted, actorID, target, map[string]string{"name": target.FullName})
}
