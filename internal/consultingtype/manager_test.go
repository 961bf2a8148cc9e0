package consultingtype

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		want    ConsultingType
		wantErr bool
	}{
		{"SUCHT", Sucht, false},
		{"U25", U25, false},
		{"KREUZBUND", Kreuzbund, false},
		{"sucht", 0, true},
		{"", 0, true},
		{"BOGUS", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSettingsShapes(t *testing.T) {
	m := NewManager()

	tests := []struct {
		t            ConsultingType
		shape        AccountShape
		monitoring   bool
		feedbackChat bool
		formal       bool
	}{
		{Sucht, ShapeSession, true, false, false},
		{U25, ShapeSession, true, true, false},
		{Kreuzbund, ShapeGroupChat, false, false, true},
		{Cure, ShapeSession, false, false, true},
		{Pregnancy, ShapeSession, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.t.String(), func(t *testing.T) {
			s, err := m.GetSettings(tt.t)
			if err != nil {
				t.Fatalf("GetSettings(%v): %v", tt.t, err)
			}
			if s.Shape != tt.shape {
				t.Errorf("Shape = %v, want %v", s.Shape, tt.shape)
			}
			if s.Monitoring != tt.monitoring {
				t.Errorf("Monitoring = %v, want %v", s.Monitoring, tt.monitoring)
			}
			if s.FeedbackChat != tt.feedbackChat {
				t.Errorf("FeedbackChat = %v, want %v", s.FeedbackChat, tt.feedbackChat)
			}
			if s.LanguageFormal != tt.formal {
				t.Errorf("LanguageFormal = %v, want %v", s.LanguageFormal, tt.formal)
			}
		})
	}
}

func TestWelcomeMessageConsistency(t *testing.T) {
	m := NewManager()
	for name := range consultingTypeNames {
		s, err := m.GetSettings(name)
		if err != nil {
			t.Fatalf("GetSettings(%v): %v", name, err)
		}
		if s.SendWelcomeMessage && s.WelcomeMessage == "" {
			t.Errorf("%v sends a welcome message but has none configured", name)
		}
	}
}
