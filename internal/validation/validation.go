// Package validation converts untrusted request payloads and path
// parameters into well-typed, constrained values. All functions are pure:
// they either return a validated value or a structured, field-attributed
// error the handlers can render as a 400.
package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"kinoteka/internal/errors"
	"kinoteka/internal/models"
)

// MaxTicketAllocation caps the pooled capacity a single screening may carry.
const MaxTicketAllocation = 100

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseID coerces a path parameter to a positive integer identifier.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("Invalid ID",
			errors.FieldError{Field: "id", Reason: "id must be a positive integer"})
	}
	return id, nil
}

// IsArrayBody reports whether a JSON body is array-shaped. The check runs
// before any structural validation so bulk-payload misuse produces a
// specific, stable message.
func IsArrayBody(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// ParseInsertableScreening validates a screening creation payload. The
// scheduling instant may arrive as a combined "timestamp" field or as
// separate "date" and "time" fields; the allocation as "ticketAllocation"
// or "capacity". Whether the instant is in the future is checked by the
// booking service, not here.
func ParseInsertableScreening(raw []byte) (*models.InsertableScreening, error) {
	if IsArrayBody(raw) {
		return nil, errors.NewValidationError("Expected a single screening object, not an array")
	}

	payload, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	var fields []errors.FieldError

	movieID, ferr := positiveInt(payload, "movieId")
	if ferr != nil {
		fields = append(fields, *ferr)
	}

	startsAt, err := parseInstant(payload)
	if err != nil {
		return nil, err
	}

	allocation, ferr := parseAllocation(payload)
	if ferr != nil {
		fields = append(fields, *ferr)
	}

	if len(fields) > 0 {
		return nil, errors.NewValidationError("Invalid screening data", fields...)
	}

	return &models.InsertableScreening{
		MovieID:          movieID,
		StartsAt:         startsAt,
		TicketAllocation: int(allocation),
	}, nil
}

// ParseCreateTicket validates a ticket creation payload. Non-integers,
// zero, and negatives each fail with a field-specific message.
func ParseCreateTicket(raw []byte) (*models.CreateTicketRequest, error) {
	if IsArrayBody(raw) {
		return nil, errors.NewValidationError("Invalid request body",
			errors.FieldError{Field: "body", Reason: "expected a single ticket object"})
	}

	payload, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	var fields []errors.FieldError

	userID, ferr := positiveInt(payload, "userId")
	if ferr != nil {
		fields = append(fields, *ferr)
	}

	screeningID, ferr := positiveInt(payload, "screeningId")
	if ferr != nil {
		fields = append(fields, *ferr)
	}

	if len(fields) > 0 {
		return nil, errors.NewValidationError("Invalid request body", fields...)
	}

	return &models.CreateTicketRequest{UserID: userID, ScreeningID: screeningID}, nil
}

// ParseUserTicketsQuery coerces the userId query parameter to a positive
// integer.
func ParseUserTicketsQuery(raw string) (int64, error) {
	userID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.NewValidationError("Invalid userId",
			errors.FieldError{Field: "userId", Reason: "userId must be a positive integer"})
	}
	return userID, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.NewValidationError("Invalid request body",
			errors.FieldError{Field: "body", Reason: "expected a JSON object"})
	}
	return payload, nil
}

// positiveInt extracts an integer field that must be strictly positive.
func positiveInt(payload map[string]any, field string) (int64, *errors.FieldError) {
	value, ok := payload[field]
	if !ok || value == nil {
		return 0, &errors.FieldError{Field: field, Reason: field + " is required"}
	}

	num, ok := value.(json.Number)
	if !ok {
		return 0, &errors.FieldError{Field: field, Reason: field + " must be a positive integer"}
	}

	parsed, err := num.Int64()
	if err != nil || parsed <= 0 {
		return 0, &errors.FieldError{Field: field, Reason: field + " must be a positive integer"}
	}

	return parsed, nil
}

// parseInstant resolves the scheduling instant from either the combined
// timestamp field or the split date/time pair. An unparseable value fails
// with its own message, distinct from generic schema errors.
func parseInstant(payload map[string]any) (time.Time, error) {
	if value, ok := payload["timestamp"]; ok {
		str, ok := value.(string)
		if !ok {
			return time.Time{}, errors.NewValidationError("Invalid timestamp")
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, str); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, errors.NewValidationError("Invalid timestamp")
	}

	dateValue, ok := payload["date"]
	if !ok {
		return time.Time{}, errors.NewValidationError("Invalid timestamp")
	}
	dateStr, ok := dateValue.(string)
	if !ok {
		return time.Time{}, errors.NewValidationError("Invalid date")
	}

	timeStr := "00:00"
	if value, ok := payload["time"]; ok {
		timeStr, ok = value.(string)
		if !ok {
			return time.Time{}, errors.NewValidationError("Invalid date")
		}
	}

	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if parsed, err := time.Parse(layout, dateStr+" "+timeStr); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.NewValidationError("Invalid date")
}

func parseAllocation(payload map[string]any) (int64, *errors.FieldError) {
	field := "ticketAllocation"
	if _, ok := payload[field]; !ok {
		if _, ok := payload["capacity"]; ok {
			field = "capacity"
		}
	}

	allocation, ferr := positiveInt(payload, field)
	if ferr != nil {
		return 0, ferr
	}
	if allocation > MaxTicketAllocation {
		return 0, &errors.FieldError{
			Field:  field,
			Reason: field + " must be at most " + strconv.Itoa(MaxTicketAllocation),
		}
	}
	return allocation, nil
}
