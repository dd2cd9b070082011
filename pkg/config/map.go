package config

// Map is an in-memory Getter, keyed by section then key.
type Map map[string]map[string]string

func (m Map) Get(section, key string) (string, error) {
	sec, ok := m[section]
	if !ok {
		return "", &ConfigurationError{Section: section, Reason: "section not found"}
	}
	value, ok := sec[key]
	if !ok {
		return "", &ConfigurationError{Section: section, Key: key, Reason: "key not found"}
	}
	return value, nil
}

// Set stores value, creating the section if needed.
func (m Map) Set(section, key, value string) {
	if m[section] == nil {
		m[section] = make(map[string]string)
	}
	m[section][key] = value
}
