package routes

import (
	"fmt"
	"strconv"
	"strings"
)

// columnBinding maps stop roles onto column indexes, -1 when unbound
type columnBinding struct {
	sequence int
	fare     int
	name     int
}

// bindColumns locates the sequence, fare and name columns by header
// label aliases, then fills unmatched roles positionally the way the
// source documents lay stop tables out: sequence first, fare second,
// name last. A role stays unbound when its positional slot is taken or
// the table is too narrow.
func bindColumns(labels []string, config Config) columnBinding {
	b := columnBinding{sequence: -1, fare: -1, name: -1}

	for i, label := range labels {
		switch {
		case b.sequence < 0 && matchesAny(label, config.SequenceAliases):
			b.sequence = i
		case b.fare < 0 && matchesAny(label, config.FareAliases):
			b.fare = i
		case b.name < 0 && matchesAny(label, config.NameAliases):
			b.name = i
		}
	}

	if b.sequence < 0 {
		b.sequence = 0
	}
	if b.name < 0 {
		if last := len(labels) - 1; last != b.sequence && last != b.fare {
			b.name = last
		}
	}
	if b.fare < 0 && len(labels) >= 3 && b.sequence != 1 && b.name != 1 {
		b.fare = 1
	}
	return b
}

func matchesAny(label string, aliases []string) bool {
	label = strings.ToLower(label)
	for _, alias := range aliases {
		if strings.Contains(label, alias) {
			return true
		}
	}
	return false
}

// parseStop reads one logical row as a stop. ok is false when the
// sequence column does not hold a number, which marks caption spill or
// noise rather than a stop row. badFare flags a stop kept with a zero
// fare because its fare cell would not parse.
func parseStop(cells []string, b columnBinding) (stop Stop, ok bool, badFare bool) {
	seq, err := parseSequence(cellAt(cells, b.sequence))
	if err != nil {
		return Stop{}, false, false
	}
	stop = Stop{Sequence: seq}

	if b.fare >= 0 {
		fare, err := parseFare(cellAt(cells, b.fare))
		if err != nil {
			badFare = true
		} else {
			stop.FareFromStart = fare
		}
	}
	if b.name >= 0 {
		stop.Name = foldLine(cellAt(cells, b.name))
	}
	return stop, true, badFare
}

// derive fills the per-stop fields computed from neighbors: the fare
// stage from the previous stop, clamped at zero so a misread fare never
// produces a negative stage, and the stable stop identifier. The first
// stop is the origin and its stage is zero.
func derive(stops []Stop, number string) []Stop {
	for i := range stops {
		if i == 0 {
			stops[i].FareFromPrevious = 0
		} else {
			diff := stops[i].FareFromStart - stops[i-1].FareFromStart
			if diff < 0 {
				diff = 0
			}
			stops[i].FareFromPrevious = diff
		}
		stops[i].ID = fmt.Sprintf("%s_%03d", number, stops[i].Sequence)
	}
	return stops
}

func cellAt(cells []string, index int) string {
	if index < 0 || index >= len(cells) {
		return ""
	}
	return cells[index]
}

// parseSequence reads a stop sequence number, tolerating a trailing
// period from list-style numbering
func parseSequence(text string) (int, error) {
	text = strings.TrimRight(strings.TrimSpace(text), ".")
	return strconv.Atoi(text)
}

// parseFare reads a fare amount, tolerating a comma decimal separator
func parseFare(text string) (float64, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	return strconv.ParseFloat(text, 64)
}

// foldLine collapses a multi-line cell to one line
func foldLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
