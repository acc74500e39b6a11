package mail

import (
	"fmt"
	"strings"
)

// formatExtras turns the stored pack field (comma-joined option keys or one
// pack key) into a readable French list.
func formatExtras(pack string, labels map[string]string) string {
	var parts []string
	for _, key := range strings.Split(pack, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if label, ok := labels[key]; ok {
			parts = append(parts, label)
		} else {
			parts = append(parts, key)
		}
	}
	return strings.Join(parts, ", ")
}

func formatEuros(cents int64) string {
	return fmt.Sprintf("%d,%02d €", cents/100, cents%100)
}
