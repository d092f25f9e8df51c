// Package i18n holds the English and Hindi strings returned to the dashboard.
package i18n

import (
	"strings"

	"ask_saturation/internal/models"
)

type Lang string

const (
	English Lang = "en"
	Hindi   Lang = "hi"
)

// Message keys.
const (
	MsgTokenIssued   = "token_issued"
	MsgNearestFound  = "nearest_found"
	MsgKmAway        = "km_away"
	MsgShiftSent     = "shift_sent"
	MsgAlertBreached = "alert_breached"
)

var zoneLabels = map[Lang]map[models.Zone]string{
	English: {
		models.ZoneRed:    "🔴 Red",
		models.ZoneYellow: "🟡 Yellow",
		models.ZoneGreen:  "🟢 Green",
	},
	Hindi: {
		models.ZoneRed:    "🔴 लाल (गंभीर)",
		models.ZoneYellow: "🟡 पीला (चेतावनी)",
		models.ZoneGreen:  "🟢 हरा (सामान्य)",
	},
}

var messages = map[Lang]map[string]string{
	English: {
		MsgTokenIssued:   "Official E-Token %s Generated!",
		MsgNearestFound:  "📍 Nearest ASK located:",
		MsgKmAway:        "KM away",
		MsgShiftSent:     "Order dispatched to UIDAI Regional Office.",
		MsgAlertBreached: "🚨 STRATEGIC ALERT: %s Capacity Breached.",
	},
	Hindi: {
		MsgTokenIssued:   "आधिकारिक ई-टोकन %s जेनरेट हुआ!",
		MsgNearestFound:  "📍 निकटतम एएसके मिला:",
		MsgKmAway:        "किमी दूर",
		MsgShiftSent:     "यूआईडीएआई क्षेत्रीय कार्यालय को आदेश भेजा गया।",
		MsgAlertBreached: "🚨 रणनीतिक चेतावनी: %s की क्षमता पार हो गई।",
	},
}

// ParseLang accepts "en", "hi", "English" or "Hindi"; anything else is English.
func ParseLang(s string) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hi", "hindi":
		return Hindi
	}
	return English
}

func ZoneLabel(lang Lang, zone models.Zone) string {
	if label, ok := zoneLabels[lang][zone]; ok {
		return label
	}
	return zoneLabels[English][zone]
}

// Message returns the template for key, falling back to English and then to the key itself.
func Message(lang Lang, key string) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[English][key]; ok {
		return msg
	}
	return key
}
