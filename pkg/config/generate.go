package config

import (
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent renders a starter configuration file: the current
// effective values, commented out, so uncommenting a line overrides it.
func GenerateConfigContent(cfg *Config) (string, error) {
	data, err := gotoml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	header := "# vivtool configuration.\n" +
		"# Uncomment a value to override the built-in default.\n\n"
	return header + commentOutConfigValues(string(data)), nil
}

// commentOutConfigValues comments out every assignment line, keeping blank
// lines, existing comments, and [section] headers as-is
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			result = append(result, line)
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
