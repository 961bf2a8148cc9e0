package entity

import (
	"time"

	"github.com/google/uuid"

	"counseling-be/internal/consultingtype"
)

// Monitoring is one answer row of the per-session monitoring questionnaire.
// The group/key taxonomy depends on the consulting type; Options holds the
// nested option answers where a key has more than a plain boolean.
type Monitoring struct {
	Id        uuid.UUID
	SessionID uuid.UUID
	Group     string
	Key       string
	Value     *bool
	Options   map[string]bool
	CreatedAt time.Time
}

// InitialMonitoringList builds the unanswered monitoring rows for a fresh
// session of the given consulting type.
func InitialMonitoringList(sessionID uuid.UUID, t consultingtype.ConsultingType) []*Monitoring {
	var rows []*Monitoring
	for _, item := range monitoringTaxonomy(t) {
		rows = append(rows, &Monitoring{
			Id:        uuid.New(),
			SessionID: sessionID,
			Group:     item.group,
			Key:       item.key,
			Options:   map[string]bool{},
		})
	}
	return rows
}

type monitoringItem struct {
	group string
	key   string
}

func monitoringTaxonomy(t consultingtype.ConsultingType) []monitoringItem {
	switch t {
	case consultingtype.Sucht:
		return []monitoringItem{
			{"addictiveDrugs", "alcohol"},
			{"addictiveDrugs", "drugs"},
			{"addictiveDrugs", "gambling"},
			{"intervention", "information"},
			{"intervention", "counseling"},
			{"intervention", "referral"},
		}
	case consultingtype.U25:
		return []monitoringItem{
			{"generalData", "age"},
			{"generalData", "employmentStatus"},
			{"consultingData", "crisisIntervention"},
			{"consultingData", "suicidality"},
		}
	default:
		return nil
	}
}
