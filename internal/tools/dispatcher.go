package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-agent/internal/types"
)

// Dispatcher resolves tool names to behavior against a fixed CVRecord and
// notification channel. It is read-only after construction and safe for
// concurrent use; Execute is reentrant and keeps no state between calls.
type Dispatcher struct {
	record  *types.CVRecord
	channel Channel
	logger  *zap.Logger
}

// NewDispatcher builds a dispatcher over the given record and channel.
// Construction is synchronous and never fails: a nil record is replaced by
// the empty well-typed record, and a nil channel simply leaves send_email
// reporting ChannelUnavailable.
func NewDispatcher(record *types.CVRecord, channel Channel, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		record:  normalizeRecord(record),
		channel: channel,
		logger:  logger,
	}
}

// normalizeRecord guarantees every projection is well-typed without
// mutating the caller's record.
func normalizeRecord(record *types.CVRecord) *types.CVRecord {
	if record == nil {
		return types.EmptyCVRecord()
	}
	normalized := *record
	if normalized.Personal == nil {
		normalized.Personal = map[string]string{}
	}
	if normalized.Experience == nil {
		normalized.Experience = []types.ExperienceEntry{}
	}
	if normalized.Education == nil {
		normalized.Education = []types.EducationEntry{}
	}
	if normalized.Skills == nil {
		normalized.Skills = []string{}
	}
	return &normalized
}

// Record returns the record the dispatcher serves. Callers must treat it
// as read-only.
func (d *Dispatcher) Record() *types.CVRecord {
	return d.record
}

// ChannelConfigured reports whether the notification channel can attempt
// deliveries.
func (d *Dispatcher) ChannelConfigured() bool {
	return d.channel != nil && d.channel.Configured()
}

var handlers = map[string]func(*Dispatcher, context.Context, map[string]any) *Result{
	ToolGetPersonalInfo:   (*Dispatcher).runGetPersonalInfo,
	ToolGetWorkExperience: (*Dispatcher).runGetWorkExperience,
	ToolGetEducation:      (*Dispatcher).runGetEducation,
	ToolGetSkills:         (*Dispatcher).runGetSkills,
	ToolSearchCV:          (*Dispatcher).runSearchCV,
	ToolSendEmail:         (*Dispatcher).runSendEmail,
}

// Execute runs the named tool and always terminates in a Result: lookup
// failures, argument violations, channel errors, and panics are all
// converted to failed envelopes at this boundary. Arguments are validated
// before any side effect occurs.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) (result *Result) {
	start := time.Now()
	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.Error("tool handler panicked",
				zap.String("tool", name),
				zap.Any("panic", recovered),
			)
			result = failureResult(name, fmt.Errorf("internal error: %v", recovered))
		}
	}()

	def, ok := Lookup(name)
	if !ok {
		d.logger.Warn("unknown tool requested", zap.String("tool", name))
		return failureResult(name, &UnknownToolError{Name: name})
	}

	if args == nil {
		args = map[string]any{}
	}
	if fields := validateArguments(def, args); len(fields) > 0 {
		return failureResult(name, &InvalidArgumentsError{Tool: name, Fields: fields})
	}

	result = handlers[name](d, ctx, args)
	d.logger.Info("tool executed",
		zap.String("tool", name),
		zap.Bool("success", result.Success),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

func (d *Dispatcher) runGetPersonalInfo(_ context.Context, _ map[string]any) *Result {
	total := len(d.record.Personal)
	summary := fmt.Sprintf("%d personal %s", total, pluralize(total, "detail", "details"))
	return successResult(ToolGetPersonalInfo, summary, d.record.Personal)
}

func (d *Dispatcher) runGetWorkExperience(_ context.Context, _ map[string]any) *Result {
	total := len(d.record.Experience)
	summary := fmt.Sprintf("%d experience %s", total, pluralize(total, "entry", "entries"))
	return successResult(ToolGetWorkExperience, summary, d.record.Experience)
}

func (d *Dispatcher) runGetEducation(_ context.Context, _ map[string]any) *Result {
	total := len(d.record.Education)
	summary := fmt.Sprintf("%d education %s", total, pluralize(total, "entry", "entries"))
	return successResult(ToolGetEducation, summary, d.record.Education)
}

func (d *Dispatcher) runGetSkills(_ context.Context, _ map[string]any) *Result {
	total := len(d.record.Skills)
	summary := fmt.Sprintf("%d %s", total, pluralize(total, "skill", "skills"))
	return successResult(ToolGetSkills, summary, d.record.Skills)
}

func (d *Dispatcher) runSearchCV(_ context.Context, args map[string]any) *Result {
	query, _ := args["query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return failureResult(ToolSearchCV, &InvalidArgumentsError{
			Tool:   ToolSearchCV,
			Fields: []FieldError{{Field: "query", Message: "must not be blank"}},
		})
	}

	matches := Search(d.record, query)
	summary := fmt.Sprintf("%d %s for %q", len(matches), pluralize(len(matches), "match", "matches"), query)
	return successResult(ToolSearchCV, summary, matches)
}

// emailArguments is the typed shape of send_email arguments. The schema
// layer has already guaranteed the fields are strings; this layer enforces
// content rules.
type emailArguments struct {
	Recipient string `validate:"required,email"`
	Subject   string `validate:"required"`
	Body      string `validate:"required"`
}

func (d *Dispatcher) runSendEmail(ctx context.Context, args map[string]any) *Result {
	recipient, _ := args["recipient"].(string)
	subject, _ := args["subject"].(string)
	body, _ := args["body"].(string)

	email := emailArguments{
		Recipient: strings.TrimSpace(recipient),
		Subject:   strings.TrimSpace(subject),
		Body:      body,
	}
	if err := validate.Struct(&email); err != nil {
		return failureResult(ToolSendEmail, &InvalidArgumentsError{
			Tool:   ToolSendEmail,
			Fields: fieldErrorsFromValidator(err),
		})
	}

	if d.channel == nil || !d.channel.Configured() {
		return failureResult(ToolSendEmail, &ChannelUnavailableError{})
	}

	receipt, err := d.channel.Send(ctx, types.EmailMessage{
		Recipient: email.Recipient,
		Subject:   email.Subject,
		Body:      email.Body,
	})
	if err != nil {
		return failureResult(ToolSendEmail, &DeliveryFailedError{Cause: err})
	}

	return successResult(ToolSendEmail, fmt.Sprintf("email sent to %s", email.Recipient), receipt)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
