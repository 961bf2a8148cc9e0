package consultingtype

import "fmt"

// Manager resolves consulting types to their settings. The registry is built
// once; lookups afterwards are read-only.
type Manager struct {
	registry map[ConsultingType]Settings
}

func NewManager() *Manager {
	m := &Manager{registry: make(map[ConsultingType]Settings)}
	for t := range consultingTypeNames {
		m.registry[t] = defaultSettings(t)
	}
	return m
}

func defaultSettings(t ConsultingType) Settings {
	s := Settings{
		Type:  t,
		Shape: ShapeSession,
		Roles: []string{"user"},
	}

	switch t {
	case Sucht:
		s.Monitoring = true
		s.SendWelcomeMessage = true
		s.WelcomeMessage = "Herzlich willkommen in der Suchtberatung! Wir melden uns in Kürze."
	case U25:
		s.Monitoring = true
		s.FeedbackChat = true
		s.SendWelcomeMessage = true
		s.WelcomeMessage = "Willkommen bei der U25-Beratung."
	case Kreuzbund:
		s.Shape = ShapeGroupChat
		s.LanguageFormal = true
	case Cure, Debt, Law, Seniority:
		s.LanguageFormal = true
	}

	return s
}

// GetSettings returns the settings for the given consulting type.
func (m *Manager) GetSettings(t ConsultingType) (Settings, error) {
	s, ok := m.registry[t]
	if !ok {
		return Settings{}, fmt.Errorf("unknown consulting type %d", t)
	}
	return s, nil
}

// Parse resolves a consulting-type name as supplied during registration.
func Parse(name string) (ConsultingType, error) {
	for t, n := range consultingTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown consulting type %q", name)
}
