package normalize

// DocumentSlot is the canonical shape of one attached document. The
// encoded payload is self-contained; nothing is shipped to external
// storage. Size and type validation happen in the upload layer before
// values reach this package.
type DocumentSlot struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Size           int64  `json:"size"`
	EncodedPayload string `json:"encodedPayload"`
	CompressedSize int64  `json:"compressedSize"`
}

// DocumentSlots accepts a single decoded JSON object or an array of
// objects and normalizes to a slice of DocumentSlot with missing
// sub-fields defaulted. Absent input returns nil.
func DocumentSlots(v interface{}) []DocumentSlot {
	switch d := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		return []DocumentSlot{documentSlot(d)}
	case []interface{}:
		slots := make([]DocumentSlot, 0, len(d))
		for _, item := range d {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			slots = append(slots, documentSlot(obj))
		}
		if len(slots) == 0 {
			return nil
		}
		return slots
	default:
		return nil
	}
}

func documentSlot(obj map[string]interface{}) DocumentSlot {
	return DocumentSlot{
		Name:           stringField(obj, "name"),
		Type:           stringField(obj, "type"),
		Size:           intField(obj, "size"),
		EncodedPayload: stringField(obj, "encodedPayload"),
		CompressedSize: intField(obj, "compressedSize"),
	}
}

func stringField(obj map[string]interface{}, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func intField(obj map[string]interface{}, key string) int64 {
	switch n := obj[key].(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
