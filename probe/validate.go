package probe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/key"
)

// validate checks that a probe response looks like a live collection API.
// The checks run in escalating depth: size, anti-bot markers, JSON shape,
// API code, presence of a data field.
func validate(body []byte) error {
	if len(body) == 0 {
		return errors.New("empty response body")
	}

	if minSize := viper.GetInt(key.ProbeMinResponseSize); len(body) < minSize {
		return fmt.Errorf("response too short: %d bytes", len(body))
	}

	lowered := strings.ToLower(string(body))
	for _, marker := range viper.GetStringSlice(key.ProbeBlockMarkers) {
		if marker != "" && strings.Contains(lowered, strings.ToLower(marker)) {
			return fmt.Errorf("anti-bot interception detected: %s", marker)
		}
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	object, ok := parsed.(map[string]any)
	if !ok {
		// Non-object JSON without block markers still proves the site is
		// answering; shape quirks are the adapter's problem.
		return nil
	}

	if code, present := object["code"]; present && !acceptableCode(code) {
		return fmt.Errorf("API answered with error code %v", code)
	}

	if _, ok = object["data"]; ok {
		return nil
	}

	if _, ok = object["list"]; ok {
		return nil
	}

	return errors.New("response carries no data field")
}

func acceptableCode(v any) bool {
	number, ok := v.(float64)
	if !ok {
		return false
	}

	return lo.Contains(viper.GetIntSlice(key.ProbeValidCodes), int(number))
}
