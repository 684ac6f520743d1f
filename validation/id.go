package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a record id that also accepts its decimal string form, as sent by
// HTML select inputs. An empty string or null decodes as zero.
type ID uint

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*id = 0
			return nil
		}
		data = []byte(s)
	}

	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", data)
	}
	*id = ID(n)
	return nil
}
