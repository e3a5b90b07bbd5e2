package engine

import (
	"fmt"
	"strings"

	"github.com/snackops/graze/internal/model"
)

// MatchAllergens cross-references a record's allergen tags against every
// team member's declared allergies. Matching is a case-insensitive
// contains check of the allergy within each tag. One conflict line is
// produced per member with at least one match, listing the allergies that
// triggered. Empty roster or empty allergen list yields no conflicts.
func MatchAllergens(record *model.Record, roster []model.TeamMember) []string {
	var conflicts []string
	for _, member := range roster {
		var triggered []string
		for _, allergy := range member.Allergies {
			for _, allergen := range record.Allergens {
				if strings.Contains(strings.ToLower(allergen), strings.ToLower(allergy)) {
					triggered = append(triggered, allergy)
					break
				}
			}
		}
		if len(triggered) > 0 {
			conflicts = append(conflicts, fmt.Sprintf("%s has allergies to: %s",
				member.Name, strings.Join(triggered, ", ")))
		}
	}
	return conflicts
}
