// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package normalize

import (
	"strings"
	"unicode"
)

// shortBuildingNames maps the short codes embedded in AP hostnames to
// full building names. Sourced from the campus facilities directory;
// codes not listed here fall back to a title-cased form of the code.
var shortBuildingNames = map[string]string{
	"ace":  "Accolade Building East",
	"acw":  "Accolade Building West",
	"ao":   "Archives of Ontario",
	"atk":  "Atkinson",
	"bc":   "Norman Bethune College",
	"bcss": "Bennett Centre for Student Services",
	"brg":  "Bergeron Centre for Engineering Excellence",
	"bsb":  "Behavioural Sciences Building",
	"bu":   "Burton Auditorium",
	"cb":   "Chemistry Building",
	"cc":   "Calumet College",
	"cfa":  "Joan & Martin Goldfarb Centre for Fine Arts",
	"cft":  "Centre for Film and Theatre / Joseph F. Green Studio Theatre",
	"clh":  "Curtis Lecture Halls",
	"csq":  "Central Square",
	"cub":  "Central Utilities Building",
	"db":   "Victor Phillip Dahdaleh Building",
	"elc":  "Executive Learning Centre",
	"fan":  "Founders Annex North",
	"fas":  "Founders Annex South",
	"fc":   "Founders College",
	"frq":  "Farquharson Life Sciences",
	"gh":   "Glendon Hall",
	"hc":   "Lorna R. Marsden Honour Court & Welcome Centre",
	"hne":  "Health, Nursing and Environmental Studies Building",
	"hr":   "Hilliard Residence",
	"k":    "Kinsmen Building",
	"kt":   "Kaneff Tower",
	"las":  "Lassonde Building",
	"lmp":  "LA&PS @ IBM (Markham campus)",
	"lsb":  "Life Sciences Building",
	"lum":  "Lumbers Building",
	"mb":   "Rob & Cheryl McEwen Graduate Study & Research Building",
	"mc":   "McLaughlin College",
	"oc":   "Off Campus",
	"osg":  "Ignat Kaneff Building (Osgoode Hall Law School)",
	"prb":  "Physical Resources Building",
	"pse":  "Petrie Science & Engineering Building",
	"ross": "Ross Building",
	"say":  "Seneca @ York (Stephen E. Quinlan Building)",
	"sc":   "Stong College",
	"scl":  "Scott Library",
	"shr":  "Sherman Health Science Research Centre",
	"slh":  "Stedman Lecture Halls",
	"ssb":  "Seymour Schulich Building",
	"ssc":  "Second Student Centre",
	"stc":  "First Student Centre",
	"stl":  "Steacie Science & Engineering Library",
	"tc":   "Tennis Canada - Sobeys Stadium",
	"tfc":  "Track & Field Centre",
	"tm":   "Tait McKenzie Centre",
	"vc":   "Vanier College",
	"vh":   "Vari Hall",
	"wc":   "Winters College",
	"wob":  "West Office Building",
	"wsc":  "William Small Centre",
	"yh":   "York Hall",
	"yl":   "York Lanes",

	// Short forms seen in the wild that do not follow the directory.
	"studc":   "Student Centre",
	"beth":    "Bethune Residence",
	"as380":   "Atkinson",
	"tel":     "Victor Phillip Dahdaleh Building",
	"psci":    "Petrie Science and Engineering",
	"scott":   "Scott Library",
	"vanier":  "Vanier College",
	"winters": "Winters College",
	"lumbers": "Lumbers",
	"life":    "Life Sciences",
	"pond":    "Pond Road Residence",
	"osgoode": "Osgoode",
	"tait":    "Tait Mackenzie",
	"st":      "Stong College",
}

// floorTokens maps the floor/area token in AP hostnames to a readable
// floor label. Unmapped tokens fall back to a title-cased form.
var floorTokens = map[string]string{
	"b":    "Basement",
	"g":    "Ground",
	"f":    "Floor",
	"r":    "Room",
	"fl":   "Floor",
	"bsmt": "Basement",
	"gr":   "Ground",
}

// ParseHostname infers building and floor from an AP hostname of the
// form <id>-<building>-<floor>-<number>, for example k388-studc-b-1.
// It is the fallback when no location string on the device resolves.
func ParseHostname(name string) (building, floor string, ok bool) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(name)), "-")
	if len(parts) < 4 {
		return "", "", false
	}

	building = shortBuildingNames[parts[1]]
	if building == "" {
		building = titleToken(parts[1])
	}
	floor = floorTokens[parts[2]]
	if floor == "" {
		floor = titleToken(parts[2])
	}
	if building == "" || floor == "" {
		return "", "", false
	}
	return building, floor, true
}

// titleToken upper-cases the first rune of a single lowercase token.
func titleToken(token string) string {
	runes := []rune(token)
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
