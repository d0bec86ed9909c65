package model

import "fmt"

// DutyGroup is one of the fixed duty partitions ("alas") used to generate the
// rotating 24-hour coverage. It is a closed set, not a stored entity.
type DutyGroup string

const (
	GroupAlfa    DutyGroup = "alfa"
	GroupBravo   DutyGroup = "bravo"
	GroupCharlie DutyGroup = "charlie"
	GroupDelta   DutyGroup = "delta"
)

// DutyGroups returns the full enumeration in rotation order.
func DutyGroups() []DutyGroup {
	return []DutyGroup{GroupAlfa, GroupBravo, GroupCharlie, GroupDelta}
}

// ParseDutyGroup validates a group label.
func ParseDutyGroup(s string) (DutyGroup, error) {
	for _, g := range DutyGroups() {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown duty group %q", s)
}

// Display returns the human label used on schedules and exports.
func (g DutyGroup) Display() string {
	switch g {
	case GroupAlfa:
		return "Ala Alfa"
	case GroupBravo:
		return "Ala Bravo"
	case GroupCharlie:
		return "Ala Charlie"
	case GroupDelta:
		return "Ala Delta"
	}
	return string(g)
}
