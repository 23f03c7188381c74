package dispatch

type Status string

const (
	StatusOK      Status = "ok"
	StatusPending Status = "pending"
	StatusError   Status = "error"
	StatusUnknown Status = "unknown"
)

// Outcome is the result of dispatching one request. Build it only through
// the constructors so every variant carries exactly its own fields.
type Outcome struct {
	Status   Status
	Message  string
	Hint     string
	Error    string
	Payload  map[string]interface{}
	Received string
	Slots    map[string]interface{}
}

func OK(message string, payload, slots map[string]interface{}) Outcome {
	return Outcome{Status: StatusOK, Message: message, Payload: payload, Slots: nonNil(slots)}
}

func Pending(message, hint string, slots map[string]interface{}) Outcome {
	return Outcome{Status: StatusPending, Message: message, Hint: hint, Slots: nonNil(slots)}
}

func Failed(message, errMsg string, slots map[string]interface{}) Outcome {
	return Outcome{Status: StatusError, Message: message, Error: errMsg, Slots: nonNil(slots)}
}

// Unknown echoes what was received; it carries no slots.
func Unknown(message, received string) Outcome {
	return Outcome{Status: StatusUnknown, Message: message, Received: received}
}

// ToMap renders the outcome as the response's result object.
func (o Outcome) ToMap() map[string]interface{} {
	out := map[string]interface{}{
		"status":  string(o.Status),
		"message": o.Message,
	}
	switch o.Status {
	case StatusOK:
		for k, v := range o.Payload {
			out[k] = v
		}
	case StatusPending:
		if o.Hint != "" {
			out["hint"] = o.Hint
		}
	case StatusError:
		out["error"] = o.Error
	case StatusUnknown:
		out["received"] = o.Received
		return out
	}
	out["slots"] = nonNil(o.Slots)
	return out
}

func nonNil(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
