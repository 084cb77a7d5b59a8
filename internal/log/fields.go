package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldUserID        = "user_id"
	FieldPeriod        = "period"
	FieldType          = "type"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldRecurrence    = "recurrence"
	FieldTransactionID = "transaction_id"
	FieldFlagged       = "flagged"
	FieldCount         = "count"
	FieldEventKind     = "event_kind"
	FieldEventID       = "event_id"
	FieldSchemaVersion = "schema_version"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentPlan        = "plan"
	ComponentTransaction = "transaction"
	ComponentTrend       = "trend"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentSheets      = "sheets"
	ComponentCache       = "cache"
	ComponentRateLimit   = "rate_limit"
	ComponentTrace       = "trace"
	ComponentBackend     = "backend"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpList      = "list"
	OpDelete    = "delete"
	OpUndo      = "undo"
	OpPromote   = "promote"
	OpCopy      = "copy"
	OpAggregate = "aggregate"
	OpExport    = "export"
	OpParse     = "parse"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithPlan adds the key of a plan row plus its amount.
func (f LogFields) WithPlan(userID int64, period, entryType, category string, amount int64) LogFields {
	f[FieldUserID] = userID
	f[FieldPeriod] = period
	f[FieldType] = entryType
	f[FieldCategory] = category
	f[FieldAmount] = amount
	return f
}

// WithTransaction adds the identifying fields of a transaction.
func (f LogFields) WithTransaction(userID, id int64, entryType, category string, amount int64) LogFields {
	f[FieldUserID] = userID
	f[FieldTransactionID] = id
	f[FieldType] = entryType
	f[FieldCategory] = category
	f[FieldAmount] = amount
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
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
