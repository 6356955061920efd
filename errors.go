package analyticord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrorKind identifies one of the error names the Analyticord API returns.
type ErrorKind int

const (
	// KindGeneric is used for error names the client does not know about.
	KindGeneric ErrorKind = iota
	KindDataValidationError
	KindInvalidOption
	KindRateLimit
	KindNotEnoughDetail
	KindNoQuery
	KindNoAuth
	KindLogsDisabled
	KindNotAnError
	KindLolMemes
	KindFeatureDisabled
	KindBotCreationFailed
	KindNightmare
	KindDataInputFailed
	KindNoHeaders
	KindUnknownError
	KindWrongAuthHeaders
	KindWrongDomain
	KindNoEventType
	KindMiscUserError
	KindNoData
	KindAuthFailed
	KindLengthMismatch
	KindWrongToken
	KindUserNotNotified
	KindBotNonExistant
)

type kindInfo struct {
	name        string
	description string
}

var kindTable = [...]kindInfo{
	KindGeneric:             {"ApiError", "the API returned an error the client does not recognise"},
	KindDataValidationError: {"DataValidationError", "submitted data did not match the expected type"},
	KindInvalidOption:       {"InvalidOption", "an option that was provided returned invalid results"},
	KindRateLimit:           {"RateLimit", "too many requests"},
	KindNotEnoughDetail:     {"NotEnoughDetail", "not all required details were submitted"},
	KindNoQuery:             {"NoQuery", "no query was provided with the request"},
	KindNoAuth:              {"NoAuth", "no authorization header was sent"},
	KindLogsDisabled:        {"LogsDisabled", "viewing the logs is disabled"},
	KindNotAnError:          {"NotAnError", "the requested error does not exist"},
	KindLolMemes:            {"LolMemes", "joke error returned by the server"},
	KindFeatureDisabled:     {"FeatureDisabled", "this feature is not currently supported"},
	KindBotCreationFailed:   {"BotCreationFailed", "the bot could not be created"},
	KindNightmare:           {"Nightmare", "unspecified server error"},
	KindDataInputFailed:     {"DataInputFailed", "the import of the data failed"},
	KindNoHeaders:           {"NoHeaders", "no headers were sent with the request"},
	KindUnknownError:        {"UnknownError", "something went wrong on the server"},
	KindWrongAuthHeaders:    {"WrongAuthHeaders", "wrong type of authentication for this endpoint"},
	KindWrongDomain:         {"WrongDomain", "connected with the wrong domain name or address"},
	KindNoEventType:         {"NoEventType", "that event type does not exist"},
	KindMiscUserError:       {"MiscUserError", "the user might not exist"},
	KindNoData:              {"NoData", "there is no data for this bot and event type"},
	KindAuthFailed:          {"AuthFailed", "invalid token"},
	KindLengthMismatch:      {"LengthMismatch", "the length of the data did not match what was expected"},
	KindWrongToken:          {"WrongToken", "that token does not exist"},
	KindUserNotNotified:     {"UserNotNotified", "the account is not verified"},
	KindBotNonExistant:      {"BotNonExistant", "that bot does not exist"},
}

// kindByName is keyed by the lower-cased error name.
var kindByName = func() map[string]ErrorKind {
	m := make(map[string]ErrorKind, len(kindTable))
	for k, info := range kindTable {
		if ErrorKind(k) == KindGeneric {
			continue
		}
		m[strings.ToLower(info.name)] = ErrorKind(k)
	}
	return m
}()

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindTable) {
		return kindTable[KindGeneric].name
	}
	return kindTable[k].name
}

// Description returns the catalog description of the kind.
func (k ErrorKind) Description() string {
	if k < 0 || int(k) >= len(kindTable) {
		return kindTable[KindGeneric].description
	}
	return kindTable[k].description
}

// ParseErrorKind looks up an error name, ignoring case and surrounding space.
func ParseErrorKind(name string) (ErrorKind, bool) {
	k, ok := kindByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// APIError is returned when the server answers with a non-success status.
type APIError struct {
	Kind        ErrorKind
	Name        string // raw error name as sent by the server
	Description string
	ID          string
	Status      int
	// RetryAfter is taken from the Retry-After header when the server sent one.
	RetryAfter time.Duration
	Extra      map[string]any
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("analyticord: ")
	b.WriteString(e.Kind.String())
	if e.Kind == KindGeneric && e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	fmt.Fprintf(&b, " (HTTP %d", e.Status)
	if e.ID != "" {
		fmt.Fprintf(&b, ", id=%s", e.ID)
	}
	b.WriteString(")")
	if e.Description != "" {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	return b.String()
}

// Is matches another *APIError by kind, so errors.Is(err, &APIError{Kind: KindRateLimit}) works.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether sending the same request again may succeed.
func (e *APIError) Retryable() bool {
	return e.Kind == KindRateLimit || e.Status >= 500 || e.Status == 429
}

// IsKind reports whether err wraps an *APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Classify builds an APIError from a decoded error body and the HTTP status.
// It never fails: unknown names and odd payload shapes map to KindGeneric
// with the original data kept in Extra.
func Classify(payload any, status int) *APIError {
	e := &APIError{Kind: KindGeneric, Status: status, Extra: map[string]any{}}

	obj, ok := payload.(map[string]any)
	if !ok {
		if payload != nil {
			e.Extra["body"] = payload
		}
		e.Description = e.Kind.Description()
		return e
	}

	for k, v := range obj {
		switch k {
		case "error":
			e.Name = fieldString(v)
		case "description":
			e.Description = fieldString(v)
		case "id":
			e.ID = fieldString(v)
		default:
			e.Extra[k] = v
		}
	}

	if kind, ok := ParseErrorKind(e.Name); ok {
		e.Kind = kind
	} else if e.Name != "" {
		e.Extra["error"] = e.Name
	}
	if e.Description == "" {
		e.Description = e.Kind.Description()
	}
	return e
}

// fieldString renders a JSON scalar; numbers are formatted without exponent.
func fieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Configuration errors, raised before any request is made.
var (
	ErrUserTokenRequired  = errors.New("user token required for this endpoint")
	ErrEventNotRegistered = errors.New("event not registered")
	ErrInvalidEventName   = errors.New("invalid event name")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Lifecycle errors.
var (
	ErrAlreadyStarted = errors.New("analyticord: client already started")
	ErrClientStopped  = errors.New("analyticord: client stopped")
)

// ConfigError reports a misconfiguration detected locally.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("analyticord: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ConnectionError is returned when no HTTP response could be obtained or read.
type ConnectionError struct {
	Op    string
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("analyticord: %s: request failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConnectionError) Unwrap() error { return e.Cause }
