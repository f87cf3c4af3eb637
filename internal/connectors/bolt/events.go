package bolt

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// Column prefixes of the flattened event subjects.
const (
	jobPrefix       = "job_"
	workOrderPrefix = "work_order_"
	statusPrefix    = "status_"
)

// EventIDColumn holds the composite key synthesised for every event.
const EventIDColumn = "event_id"

var eventIDStripper = strings.NewReplacer(":", "", "-", "", " ", "")

// normaliseJobEvent maps a job event.
// event_id = id_jobid_event_createdat.
func normaliseJobEvent(raw domain.RawRecord) (domain.Record, error) {
	rec, err := eventHeader(raw, "id", "event", "author", "created_at")
	if err != nil {
		return nil, err
	}
	if err := flattenSubject(rec, raw, "job", jobPrefix, blankTrimmed); err != nil {
		return nil, err
	}
	return withEventID(rec, "id", "job_id", "event", "created_at")
}

// normaliseWorkOrderEvent maps a work-order event. The upstream carries no
// outer event id for this stream.
// event_id = workorderid_event_createdat.
func normaliseWorkOrderEvent(raw domain.RawRecord) (domain.Record, error) {
	rec, err := eventHeader(raw, "event", "created_at", "author")
	if err != nil {
		return nil, err
	}
	if err := flattenSubject(rec, raw, "work_order", workOrderPrefix, blankTrimmed); err != nil {
		return nil, err
	}
	return withEventID(rec, "work_order_id", "event", "created_at")
}

// normaliseStatusEvent maps a work-order status event. Status members are
// passed through without blank handling.
// event_id = id_statusworkorderid_event_createdat.
func normaliseStatusEvent(raw domain.RawRecord) (domain.Record, error) {
	rec, err := eventHeader(raw, "id", "event", "author", "created_at")
	if err != nil {
		return nil, err
	}
	if err := flattenSubject(rec, raw, "status", statusPrefix, blankNone); err != nil {
		return nil, err
	}
	return withEventID(rec, "id", "status_work_order_id", "event", "created_at")
}

// eventHeader copies the outer event fields and the changes payload.
func eventHeader(raw domain.RawRecord, fields ...string) (domain.Record, error) {
	rec := make(domain.Record, len(fields)+8)
	for _, f := range fields {
		v, err := scalar(raw[f], blankNone)
		if err != nil {
			return nil, dropped("field %q: %v", f, err)
		}
		rec[f] = v
	}

	changes, err := changesValue(raw["changes"])
	if err != nil {
		return nil, dropped("field \"changes\": %v", err)
	}
	rec["changes"] = changes
	return rec, nil
}

// changesValue JSON-encodes a non-empty changes payload. Null and empty
// values become nil.
func changesValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "{}", "[]", `""`, "false", "0":
		return nil, nil
	}
	return compactJSON(raw)
}

// flattenSubject spreads the nested subject object under prefix.
// A missing or non-object subject contributes no columns.
func flattenSubject(rec domain.Record, raw domain.RawRecord, key, prefix string, blank blankMode) error {
	value, ok := raw[key]
	if !ok || !isObject(value) {
		return nil
	}
	if err := flattenInto(rec, prefix, value, blank); err != nil {
		return dropped("field %q: %v", key, err)
	}
	return nil
}

// withEventID sets the composite event key from the named columns.
// A missing component drops the record.
func withEventID(rec domain.Record, columns ...string) (domain.Record, error) {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		v := rec[c]
		if !truthy(v) {
			return nil, dropped("event key component %q missing", c)
		}
		parts = append(parts, keyPart(v))
	}
	rec[EventIDColumn] = EventID(parts...)
	return rec, nil
}

// EventID joins key components with underscores and strips ':', '-' and
// spaces.
func EventID(parts ...string) string {
	return eventIDStripper.Replace(strings.Join(parts, "_"))
}

func keyPart(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
