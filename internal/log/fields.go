package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldEvent      = "event"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldField      = "field"
	FieldKey        = "key"
	FieldCredits    = "credits"
	FieldCount      = "count"
	FieldTrip       = "trip"
	FieldTotal      = "total"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentTracker    = "tracker"
	ComponentClassifier = "classifier"
	ComponentLedger     = "ledger"
	ComponentSession    = "session"
	ComponentPrefs      = "prefs"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentHTTP       = "http"
	ComponentMetrics    = "metrics"
	ComponentJournal    = "journal"
	ComponentWorker     = "worker"
)

// Operations defines standard operation names
const (
	OperationAppend   = "append"
	OperationReset    = "reset"
	OperationLoad     = "load"
	OperationSave     = "save"
	OperationClassify = "classify"
	OperationPublish  = "publish"
	OperationReplay   = "replay"
	OperationShutdown = "shutdown"
	OperationStartup  = "startup"
	OperationConsume  = "consume"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction fields
func (f LogFields) WithTransaction(event, category string, amount decimal.Decimal) LogFields {
	if event != "" {
		f[FieldEvent] = event
	}
	f[FieldCategory] = category
	f[FieldAmount] = amount.String()
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
